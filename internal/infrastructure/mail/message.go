// Package mail renders notifications into HTML email and hands them to a
// delivery backend.
package mail

import (
	"context"
	"errors"
)

// Message is a rendered email ready for delivery. It is also the JSON body of
// jobs published to the mail queue.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Kind    string `json:"kind"`
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	ErrNoRecipient   = errors.New("mail: message has no recipient")
	ErrUnknownKind   = errors.New("mail: unknown notification kind")
	ErrUnknownDriver = errors.New("mail: unknown driver")
)
