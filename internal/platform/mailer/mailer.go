// Package mailer provides SMTP delivery for follow-up reminder emails.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jobtrail/jobtrail-api/internal/domain"
)

// SMTPMailer sends reminder emails through a plain SMTP relay.
type SMTPMailer struct {
	addr   string
	from   string
	logger *slog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a mailer talking to the relay at addr (host:port),
// sending from the given address.
func NewSMTPMailer(addr, from string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		addr:   addr,
		from:   from,
		logger: logger.With("component", "smtp_mailer"),
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

// SendFollowUpReminder emails the user a nudge about one stale application.
func (m *SMTPMailer) SendFollowUpReminder(ctx context.Context, to string, app *domain.Application) error {
	subject := fmt.Sprintf("Follow up on your application at %s", app.Company)
	body := fmt.Sprintf(
		"Hi,\r\n\r\nIt has been over a week since you applied for %s at %s (applied %s). "+
			"Now is a good time to send a follow-up note.\r\n\r\n- JobTrail",
		app.Position, app.Company, app.AppliedDate.Format("January 2, 2006"),
	)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	if err := m.send(m.addr, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	m.logger.InfoContext(ctx, "sent follow-up reminder email",
		"application_id", app.ID,
		"company", app.Company)
	return nil
}
