package promo

import "lashbook/models"

// Apply computes the discount the terms grant against a price in minor
// currency units. The discount never exceeds the price and is capped by
// the code's max-discount when one is set.
func Apply(terms *models.DiscountTerms, price int64) (int64, error) {
	if terms == nil || price <= 0 {
		return 0, nil
	}
	if terms.MinPurchase > 0 && price < terms.MinPurchase {
		return 0, ErrMinPurchaseNotMet
	}

	var discount int64
	switch terms.Type {
	case models.DiscountPercentage:
		discount = price * terms.Value / 100
	case models.DiscountFixed:
		discount = terms.Value
	default:
		return 0, ErrInvalid
	}

	if terms.MaxDiscount > 0 && discount > terms.MaxDiscount {
		discount = terms.MaxDiscount
	}
	if discount > price {
		discount = price
	}
	if discount < 0 {
		discount = 0
	}
	return discount, nil
}
