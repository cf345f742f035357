// Package sms wraps the Twilio messaging API.
package sms

import (
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type Client struct {
	api  *twilio.RestClient
	from string
}

// NewClient returns nil when credentials are missing; callers treat a nil
// client as "SMS disabled".
func NewClient(accountSID, authToken, from string) *Client {
	if accountSID == "" || authToken == "" {
		return nil
	}
	api := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{api: api, from: from}
}

func (c *Client) Send(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)
	_, err := c.api.Api.CreateMessage(params)
	return err
}
