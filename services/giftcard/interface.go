package giftcard

import (
	"context"

	"lashbook/models"
)

// Ledger owns every gift card record. Balances are mutated only through
// Redeem; redemption is strictly decreasing and never leaves a negative
// balance.
type Ledger interface {
	// FindByCode looks a card up by its format-insensitive code, lazily
	// flipping active cards past their expiry to expired.
	FindByCode(ctx context.Context, code string) (*models.GiftCard, error)
	// Redeem deducts amount from the card under its key lock and returns
	// the remaining balance.
	Redeem(ctx context.Context, code string, amount int64, bookingID, redeemedBy string) (int64, error)
	// Issue registers a new card (admin surface).
	Issue(ctx context.Context, card models.GiftCard) (*models.GiftCard, error)
}
