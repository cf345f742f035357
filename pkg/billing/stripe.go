// Package billing wraps Stripe Checkout and webhook verification.
package billing

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Client struct {
	webhookSecret string
}

func NewClient(secretKey, webhookSecret string) *Client {
	stripe.Key = secretKey
	return &Client{webhookSecret: webhookSecret}
}

type CheckoutInput struct {
	PlanCode       string
	PlanName       string
	AmountCents    int64
	Currency       string
	CustomerEmail  string
	UserID         uint
	IdempotencyKey string
	SuccessURL     string
	CancelURL      string
}

// CreateCheckoutSession opens a one-off Checkout session for a package and
// returns its id and hosted payment URL. Plan and user ride along in the
// session metadata for the webhook.
func (c *Client) CreateCheckoutSession(in CheckoutInput) (id, url string, err error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		CustomerEmail:     stripe.String(in.CustomerEmail),
		ClientReferenceID: stripe.String(in.IdempotencyKey),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(in.Currency),
				UnitAmount: stripe.Int64(in.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(in.PlanName),
				},
			},
		}},
	}
	params.SetIdempotencyKey(in.IdempotencyKey)
	params.AddMetadata("plan_code", in.PlanCode)
	s, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return s.ID, s.URL, nil
}

// VerifyWebhook checks the Stripe signature and returns the parsed event.
func (c *Client) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
}
