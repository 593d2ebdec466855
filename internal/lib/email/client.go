// Package email sends audit alerts through Resend. Bodies are rendered
// from HTML templates embedded in the binary.
package email

import (
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

// ErrNotConfigured is returned when no Resend API key is set.
var ErrNotConfigured = errors.New("email: resend api key not configured")

type Client struct {
	client *resend.Client
	from   string
	logger *zerolog.Logger
}

// NewClient returns a Client. With an empty API key every send fails with
// ErrNotConfigured.
func NewClient(cfg config.IntegrationConfig, logger *zerolog.Logger) *Client {
	c := &Client{from: cfg.EmailFrom, logger: logger}
	if cfg.ResendAPIKey != "" {
		c.client = resend.NewClient(cfg.ResendAPIKey)
	}
	return c
}

// SendEmail renders templateName with data and sends it to every recipient.
func (c *Client) SendEmail(to []string, subject string, templateName Template, data any) error {
	if c.client == nil {
		return ErrNotConfigured
	}
	if len(to) == 0 {
		return errors.New("email: no recipients")
	}

	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	sent, err := c.client.Emails.Send(&resend.SendEmailRequest{
		From:    c.from,
		To:      to,
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().Str("id", sent.Id).Str("template", string(templateName)).Msg("email sent")
	return nil
}
