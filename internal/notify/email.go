package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/config"
	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender delivers payment reminders to a user
type Sender interface {
	SendPaymentReminder(user models.User, events []calendar.Event) error
}

// SMTPSender handles sending emails via SMTP
type SMTPSender struct {
	cfg    *config.Config
	logger logrus.FieldLogger
}

// NewSMTPSender creates a new email sender
func NewSMTPSender(cfg *config.Config, logger logrus.FieldLogger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
	}
}

// reminderEmail builds the reminder message for the upcoming events
func reminderEmail(from string, user models.User, events []calendar.Event) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{user.Email}
	e.Subject = "Upcoming Payment Reminder"
	if len(events) > 1 {
		e.Subject = fmt.Sprintf("%d Upcoming Payments", len(events))
	}

	name := user.Name
	if name == "" {
		name = user.Email
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	b.WriteString("The following items are coming up on your calendar:\n\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "  %s  %-30s %s\n", ev.Date.Format(models.DateLayout), ev.Title, ev.Amount().StringFixed(2))
	}
	b.WriteString("\nPlease make sure the linked accounts have sufficient funds.\n")
	b.WriteString("\nBest regards,\nFinance Planner")
	e.Text = []byte(b.String())
	return e
}

// SendPaymentReminder sends a reminder email listing events
func (s *SMTPSender) SendPaymentReminder(user models.User, events []calendar.Event) error {
	e := reminderEmail(s.cfg.SenderEmail, user, events)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", user.Email, err)
	}

	s.logger.Infof("Email sent to %s: %s", user.Email, e.Subject)
	return nil
}
