package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/internal/leads"
	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// Service e-mails operators about new leads.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. Blank recipients are dropped.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	return &Service{email: email, recipients: cleaned, logger: logger}
}

// NotifyNewLead sends one message per recipient. Every recipient is tried;
// the returned error joins the failures.
func (s *Service) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	if s.email == nil || len(s.recipients) == 0 {
		s.logger.Debug("notify: no email sender or recipients, skipping", "lead_id", lead.ID)
		return nil
	}

	msg := EmailMessage{
		Subject: "New service request: " + lead.Subject,
		Body:    formatLead(lead),
	}

	var errs []error
	for _, to := range s.recipients {
		msg.To = to
		if err := s.email.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("notify: %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

func formatLead(lead *leads.Lead) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	line("Subject", lead.Subject)
	line("Category", lead.Category)
	line("Service", lead.ServiceID)
	if lead.BookingDate != nil {
		line("Preferred date", lead.BookingDate.Format("Monday, January 2, 2006"))
	}
	line("Name", lead.SenderName)
	line("Email", lead.SenderEmail)
	line("Phone", lead.SenderPhone)
	line("Source", lead.Source)
	line("Received", lead.CreatedAt.Format("January 2, 2006 at 15:04 MST"))
	if lead.Message != "" {
		b.WriteString("\n")
		b.WriteString(lead.Message)
		b.WriteString("\n")
	}
	return b.String()
}
