// Package email delivers outbound mail. The Sender interface is the only
// surface the rest of the system sees; SMTP is the production backend.
package email

import "context"

// Email is one outbound message.
type Email struct {
	To       []string
	From     string // optional, falls back to the sender's default
	Subject  string
	TextBody string
}

// Sender sends an email and returns a provider message id when available.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}
