package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// Notifier delivers best-effort messages. Callers log a returned error and
// carry on; delivery never decides the outcome of the operation that
// triggered it.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
