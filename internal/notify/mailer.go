// Package notify sends run outcome emails over SMTP. The mailer is a
// no-op unless a host and at least one recipient are configured.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"github.com/jonesrussell/trendradar/internal/config"
	"github.com/jonesrussell/trendradar/internal/domain"
	"github.com/jonesrussell/trendradar/internal/logger"
)

// Mailer sends scan alerts to the configured recipients.
type Mailer struct {
	cfg    *config.AlertsConfig
	logger logger.Interface
}

// New creates a mailer. A nil or disabled config yields a mailer whose
// sends silently succeed.
func New(cfg *config.AlertsConfig, log logger.Interface) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: log.WithComponent("notify"),
	}
}

// Enabled reports whether the mailer will actually send anything.
func (m *Mailer) Enabled() bool {
	return m.cfg != nil && m.cfg.Enabled && m.cfg.SMTPHost != "" && len(m.cfg.To) > 0
}

// NotifyRunFailed emails the run failure with its error message.
func (m *Mailer) NotifyRunFailed(run *domain.ScanRun) error {
	if !m.Enabled() {
		return nil
	}

	reason := "unknown error"
	if run.ErrorMessage != nil {
		reason = *run.ErrorMessage
	}
	body := fmt.Sprintf(`Scan run %s failed.

Trigger: %s
Reason: %s

Check the service logs for details.`, run.ID, run.Trigger, reason)

	return m.send(fmt.Sprintf("Trend radar: scan %s failed", shortID(run.ID)), body)
}

// NotifyRunCompleted emails a short summary of a completed run.
func (m *Mailer) NotifyRunCompleted(run *domain.ScanRun, priorityA int) error {
	if !m.Enabled() {
		return nil
	}

	body := fmt.Sprintf(`Scan run %s completed.

Trigger: %s
Products found: %d
Products kept: %d
Priority A: %d`, run.ID, run.Trigger, run.ProductsFound, run.ProductsKept, priorityA)
	if run.ReportPath != nil {
		body += fmt.Sprintf("\nReport: %s", *run.ReportPath)
	}

	return m.send(fmt.Sprintf("Trend radar: scan %s completed, %d priority-A products", shortID(run.ID), priorityA), body)
}

func (m *Mailer) send(subject, body string) error {
	mail := email.NewEmail()
	mail.From = m.cfg.From
	mail.To = m.cfg.To
	mail.Subject = subject
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	err := mail.Send(addr, auth)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	m.logger.Info("Alert email sent",
		"subject", subject,
		"recipients", len(m.cfg.To),
	)
	return nil
}

// shortID keeps email subjects readable with UUID run IDs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
