package email

import (
	"context"
)

// Message is a single outbound email. The application composes both HTML
// and plaintext bodies; the sender never blocks a user-facing action.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

type Service interface {
	Send(ctx context.Context, msg *Message) error
}
