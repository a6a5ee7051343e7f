package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"supportdesk/pkg/config"
)

// Mailer delivers notification emails to portal users.
type Mailer interface {
	SendOTP(to, code string) error
	SendTicketCreated(to, ticketID, subject string) error
	SendTicketAssigned(to, ticketID, engineerName string) error
	SendTicketClosed(to, ticketID string) error
	SendCommentAdded(to, ticketID, authorName string) error
	SendBundlePurchased(to string, size int, billingMonth string) error
	SendPasswordReset(to, token string) error
}

type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

func (m *SMTPMailer) SendOTP(to, code string) error {
	body := fmt.Sprintf("Your one-time login code is %s. It expires in 5 minutes.", code)
	return m.send(to, "Your login code", body)
}

func (m *SMTPMailer) SendTicketCreated(to, ticketID, subject string) error {
	body := fmt.Sprintf("Ticket %s has been registered: %s\n\nOur team will get back to you shortly.", ticketID, subject)
	return m.send(to, fmt.Sprintf("Ticket %s created", ticketID), body)
}

func (m *SMTPMailer) SendTicketAssigned(to, ticketID, engineerName string) error {
	body := fmt.Sprintf("Ticket %s has been assigned to %s and is now in progress.", ticketID, engineerName)
	return m.send(to, fmt.Sprintf("Ticket %s assigned", ticketID), body)
}

func (m *SMTPMailer) SendTicketClosed(to, ticketID string) error {
	body := fmt.Sprintf("Ticket %s has been resolved and closed. Reply to this email if the issue persists.", ticketID)
	return m.send(to, fmt.Sprintf("Ticket %s closed", ticketID), body)
}

func (m *SMTPMailer) SendCommentAdded(to, ticketID, authorName string) error {
	body := fmt.Sprintf("%s added a new comment on ticket %s. Sign in to the portal to view it.", authorName, ticketID)
	return m.send(to, fmt.Sprintf("New comment on ticket %s", ticketID), body)
}

func (m *SMTPMailer) SendBundlePurchased(to string, size int, billingMonth string) error {
	body := fmt.Sprintf("A bundle of %d additional service requests has been added to your account for %s.", size, billingMonth)
	return m.send(to, "Service request bundle added", body)
}

func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf("Use this code to reset your password: %s\n\nIt expires in 5 minutes. If you did not request a reset, ignore this email.", token)
	return m.send(to, "Password reset", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if !m.cfg.Enabled {
		m.logger.Debug("mail disabled, skipping send", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
