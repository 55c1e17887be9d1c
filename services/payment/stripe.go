package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lashbook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeGateway implements Gateway on Stripe Checkout. The checkout session
// id is the payment reference; the booking reference rides along as the
// session's client reference id and comes back on the webhook.
type StripeGateway struct {
	WebhookSecret string
	Logger        *zap.Logger
}

func NewStripeGateway(apiKey, webhookSecret string, logger *zap.Logger) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{WebhookSecret: webhookSecret, Logger: logger}
}

func (g *StripeGateway) Initialize(ctx context.Context, req models.PaymentInit) (*models.PaymentSession, error) {
	description := req.Description
	if description == "" {
		description = "Booking deposit"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(req.BookingReference),
		SuccessURL:        stripe.String(req.CallbackURL + "?session_id={CHECKOUT_SESSION_ID}"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingReference", req.BookingReference)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	g.Logger.Info("checkout session opened",
		zap.String("sessionId", sess.ID),
		zap.String("bookingReference", req.BookingReference),
		zap.Int64("amount", req.Amount),
	)
	return &models.PaymentSession{
		AuthorizationURL: sess.URL,
		Reference:        sess.ID,
	}, nil
}

func (g *StripeGateway) Verify(ctx context.Context, reference string) (*models.PaymentVerification, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(reference, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve checkout session %q: %w", reference, err)
	}

	result := &models.PaymentVerification{
		Reference: sess.ID,
		Amount:    sess.AmountTotal,
		Currency:  string(sess.Currency),
		Status:    models.PaymentStatusPending,
	}
	if sess.CustomerDetails != nil {
		result.CustomerEmail = sess.CustomerDetails.Email
	}
	switch sess.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		result.Status = models.PaymentStatusSuccess
		paidAt := time.Unix(sess.Created, 0)
		result.PaidAt = &paidAt
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		if sess.Status == stripe.CheckoutSessionStatusExpired {
			result.Status = models.PaymentStatusFailed
		}
	}
	return result, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*models.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}

	out := &models.WebhookEvent{Type: string(event.Type)}
	if event.Type == "checkout.session.completed" || event.Type == "checkout.session.async_payment_succeeded" {
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: decode checkout session from event: %w", err)
		}
		out.PaymentCompleted = true
		out.BookingReference = sess.ClientReferenceID
		out.PaymentReference = sess.ID
	}
	return out, nil
}
