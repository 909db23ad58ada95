package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string // optional
	From     string // default sender address
	FromName string // optional sender display name
}

// SMTPSender implements Sender using go-mail: TLS/STARTTLS detection,
// standard auth methods, and proper MIME construction.
type SMTPSender struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTP email sender.
func NewSMTPSender(config SMTPConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send sends an email via SMTP.
func (s *SMTPSender) Send(ctx context.Context, email *Email) (string, error) {
	msg := mail.NewMsg()

	from := email.From
	if from == "" {
		from = s.config.From
	}
	if s.config.FromName != "" {
		if err := msg.FromFormat(s.config.FromName, from); err != nil {
			return "", fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := msg.From(from); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}

	if err := msg.To(email.To...); err != nil {
		return "", fmt.Errorf("invalid to address: %w", err)
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.TextBody)

	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
		)
	}

	client, err := mail.NewClient(s.config.Host, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	messageID := msg.GetMessageID()
	s.logger.Info("email sent",
		"to", email.To,
		"subject", email.Subject,
		"message_id", messageID,
	)
	return messageID, nil
}
