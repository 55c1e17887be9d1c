package models

import "time"

// Gift card statuses.
const (
	GiftCardActive    = "active"
	GiftCardRedeemed  = "redeemed"
	GiftCardExpired   = "expired"
	GiftCardCancelled = "cancelled"
)

// GiftCard is a balance-bearing redemption unit. Amounts are minor currency
// units; Amount only ever decreases and never drops below zero.
type GiftCard struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"` // normalized form
	Amount         int64      `json:"amount"`
	OriginalAmount int64      `json:"originalAmount"`
	Status         string     `json:"status"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`

	PurchasedBy string `json:"purchasedBy,omitempty"`
	RecipientOf string `json:"recipientOf,omitempty"`

	RedeemedAt        *time.Time `json:"redeemedAt,omitempty"`
	RedeemedBookingID string     `json:"redeemedBookingId,omitempty"`
	RedeemedBy        string     `json:"redeemedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
