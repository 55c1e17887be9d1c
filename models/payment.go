package models

import "time"

// Gateway verification statuses, normalized across providers.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusPending = "pending"
	PaymentStatusFailed  = "failed"
)

// PaymentInit is the request to open a gateway transaction for a deposit.
type PaymentInit struct {
	Email            string            `json:"email"`
	Amount           int64             `json:"amount"` // minor units
	Currency         string            `json:"currency"`
	BookingReference string            `json:"bookingReference"`
	CallbackURL      string            `json:"callbackUrl"`
	Description      string            `json:"description,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// PaymentSession is the gateway's answer to PaymentInit: where to send the
// client, and the reference under which the transaction can be verified.
type PaymentSession struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// PaymentVerification is the result of verifying a transaction by reference.
type PaymentVerification struct {
	Reference     string     `json:"reference"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
}

// WebhookEvent is a signature-verified gateway callback. For completed
// checkouts BookingReference carries the reference the session was opened
// with and PaymentReference the gateway-side transaction id.
type WebhookEvent struct {
	Type             string `json:"type"`
	PaymentCompleted bool   `json:"paymentCompleted"`
	BookingReference string `json:"bookingReference,omitempty"`
	PaymentReference string `json:"paymentReference,omitempty"`
}
