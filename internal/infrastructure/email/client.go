// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"html"

	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendLeadNotification(leadName, leadEmail, leadPhone string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	toAddress string
	fromEmail string
	fromName  string
	logger    *logging.ChanneledLogger
}

// noopClient is used when no API key is configured. Registrations still
// succeed; the notification is simply skipped.
type noopClient struct {
	logger *logging.ChanneledLogger
}

// NewService creates a new email service client. Without a RESEND_API_KEY it
// returns a no-op service so lead capture never depends on email delivery.
func NewService(logger *logging.ChanneledLogger) Service {
	if config.ResendAPIKey == "" || config.LeadNotifyAddress == "" {
		logger.Email().Info("Email notifications disabled, no API key or notify address configured")
		return &noopClient{logger: logger}
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		toAddress: config.LeadNotifyAddress,
		fromEmail: config.EmailFromAddress,
		fromName:  config.EmailFromName,
		logger:    logger,
	}
}

// leadNotificationBody renders the notification HTML. The fields come straight
// from the public registration form, so every value is escaped.
func leadNotificationBody(leadName, leadEmail, leadPhone string) string {
	return fmt.Sprintf(
		`<h2>Novo lead registrado</h2>
		<p><strong>Nome:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Telefone:</strong> %s</p>`,
		html.EscapeString(leadName), html.EscapeString(leadEmail), html.EscapeString(leadPhone),
	)
}

// SendLeadNotification emails the configured address about a new registration.
func (c *ResendClient) SendLeadNotification(leadName, leadEmail, leadPhone string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.toAddress},
		Subject: fmt.Sprintf("Novo lead: %s", leadName),
		Html:    leadNotificationBody(leadName, leadEmail, leadPhone),
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		c.logger.Email().Error("Failed to send lead notification", "error", err.Error())
		return fmt.Errorf("failed to send lead notification via Resend: %w", err)
	}

	c.logger.Email().Info("Lead notification sent", "to", c.toAddress)
	return nil
}

func (c *noopClient) SendLeadNotification(leadName, leadEmail, leadPhone string) error {
	c.logger.Email().Debug("Skipping lead notification, email service disabled")
	return nil
}
