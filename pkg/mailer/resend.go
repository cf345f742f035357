// Package mailer wraps the Resend transactional mail API.
package mailer

import (
	"github.com/resend/resend-go/v2"
)

type Client struct {
	api  *resend.Client
	from string
}

// NewClient returns nil when no API key is configured; callers treat a nil
// client as "email disabled".
func NewClient(apiKey, from string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{api: resend.NewClient(apiKey), from: from}
}

func (c *Client) Send(to, subject, html string) error {
	_, err := c.api.Emails.Send(&resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}
