package payment

import (
	"context"

	"lashbook/models"
)

// Gateway abstracts the third-party payment provider. The confirmation
// pipeline only depends on this contract: open a transaction, verify one by
// reference, and authenticate inbound webhooks over the raw body.
type Gateway interface {
	Initialize(ctx context.Context, req models.PaymentInit) (*models.PaymentSession, error)
	// Verify is read-only on the gateway side and safe to repeat.
	Verify(ctx context.Context, reference string) (*models.PaymentVerification, error)
	// ParseWebhook verifies the HMAC signature over the raw request body and
	// decodes the event. A bad signature is an error, never a zero event.
	ParseWebhook(payload []byte, signature string) (*models.WebhookEvent, error)
}
