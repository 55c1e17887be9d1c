package promo

import (
	"context"

	"lashbook/models"
)

// Ledger owns every promo code record. Codes are mutated only through
// Redeem; Validate never writes.
type Ledger interface {
	// Validate runs the eligibility rules for code against email and the
	// caller context and returns sanitized discount terms on success. It is
	// advisory: nothing is marked used.
	Validate(ctx context.Context, code, email string, rctx models.RedemptionContext) (*models.DiscountTerms, error)
	// Redeem re-runs the eligibility checks and marks the code used by
	// email, all under the code's key lock.
	Redeem(ctx context.Context, code, email string, rctx models.RedemptionContext) error
	// Create registers a new code. Fails if the normalized code exists.
	Create(ctx context.Context, code models.PromoCode) error
	// Get returns the raw code record (admin surface).
	Get(ctx context.Context, code string) (*models.PromoCode, error)
}
