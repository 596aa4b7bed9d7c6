package handler

import (
	"bytes"
	"encoding/json"

	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// nullable decodes a JSON field that may be absent, null, or a value.
// Absent leaves Set false; null sets Set with a nil Value.
type nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n nullable[T]) optional() ports.Optional[T] {
	return ports.Optional[T]{Set: n.Set, Value: n.Value}
}
