// Package message renders the customer-facing reply for a validation
// report. Generation is a pure function of the report; delivery through an
// email sender is optional and best-effort.
package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/orderdesk/internal/domain"
	"github.com/dukerupert/orderdesk/internal/email"
)

// Service generates replies and, when a sender is configured and the
// report carries a customer email, delivers them.
type Service struct {
	sender email.Sender // nil disables delivery
	logger *slog.Logger
}

// NewService creates a message service. sender may be nil.
func NewService(sender email.Sender, logger *slog.Logger) *Service {
	return &Service{
		sender: sender,
		logger: logger,
	}
}

// Generate renders the reply for the report and delivers it when possible.
// Delivery failures are logged, not returned: a lost email must never block
// settlement, and the generated message is still useful to the caller.
func (s *Service) Generate(ctx context.Context, report domain.ValidationReport) (domain.CustomerMessage, error) {
	msg := Render(report)

	if s.sender != nil && report.CustomerInfo.Email != "" {
		if _, err := s.sender.Send(ctx, &email.Email{
			To:       []string{report.CustomerInfo.Email},
			Subject:  msg.Subject,
			TextBody: msg.Body,
		}); err != nil {
			s.logger.Error("failed to deliver customer reply",
				"to", report.CustomerInfo.Email,
				"error", err,
			)
		}
	}

	return msg, nil
}

// Render builds the reply deterministically from the report. No side
// effects and no order-state changes.
func Render(report domain.ValidationReport) domain.CustomerMessage {
	var subject string
	var b strings.Builder

	name := report.CustomerInfo.Name
	if name == "" {
		name = "Customer"
	}

	switch report.OverallStatus {
	case domain.StatusUnknownCustomer:
		subject = "Registration Required to Complete Your Order"
		fmt.Fprintf(&b, "Dear %s,\n\n", name)
		b.WriteString("Thank you for your interest in our products. We could not match your details ")
		b.WriteString("to an existing customer account, so we are unable to process this order yet.\n\n")
		b.WriteString("To get started, please register with our sales team or reply with your ")
		b.WriteString("customer number. Once your account is set up we will be happy to process ")
		b.WriteString("your order right away.\n\n")
		b.WriteString("If you need any assistance, contact us at support@orderdesk.example.\n")

	case domain.StatusSuccess:
		subject = "Your Order Confirmation"
		fmt.Fprintf(&b, "Dear %s,\n\n", name)
		b.WriteString("Thank you for your order. All items are confirmed:\n\n")
		writeItems(&b, report.SuccessfulItems)
		b.WriteString("\nYou will receive a shipping notification as soon as your order is on its way.\n\n")
		b.WriteString("We appreciate your business.\n")

	default: // partial_success, failure
		subject = "Your Order Requires Attention"
		fmt.Fprintf(&b, "Dear %s,\n\n", name)
		b.WriteString("Thank you for your order. Some items need your input before we can proceed.\n\n")
		if len(report.ErrorItems) > 0 {
			b.WriteString("Items Requiring Attention:\n")
			for _, item := range report.ErrorItems {
				fmt.Fprintf(&b, "  - %s: %s\n", item.ProductRef, item.Message)
			}
			b.WriteString("\n")
		}
		if len(report.Suggestions) > 0 {
			b.WriteString("Suggested Alternatives:\n")
			for _, s := range report.Suggestions {
				fmt.Fprintf(&b, "  - %s\n", s)
			}
			b.WriteString("\n")
		}
		if len(report.SuccessfulItems) > 0 {
			b.WriteString("Items Ready to Ship:\n")
			writeItems(&b, report.SuccessfulItems)
			b.WriteString("\n")
		}
		b.WriteString("Please reply with any changes, or confirm and we will proceed with the ")
		b.WriteString("available items. We apologize for the inconvenience.\n")
	}

	return domain.CustomerMessage{
		Subject: subject,
		Body:    b.String(),
		Status:  string(report.OverallStatus),
	}
}

func writeItems(b *strings.Builder, items []domain.ResolvedItem) {
	for _, item := range items {
		fmt.Fprintf(b, "  - %s x%d\n", item.ProductName, item.Quantity)
	}
}
