package mail

import (
	"context"
	"io"
)

// Message represents a plain-text email payload.
type Message struct {
	// From is an optional explicit sender; the configured sender is used when empty.
	From string
	// To lists required recipients.
	To []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}
