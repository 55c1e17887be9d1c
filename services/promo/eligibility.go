package promo

import (
	"strings"
	"time"

	"lashbook/models"
)

// eligibility runs the decision sequence for a code. The rule order is
// load-bearing: first failing rule wins, and the per-email reuse check
// applies globally before any kind-specific branch.
func eligibility(pc *models.PromoCode, email string, rctx models.RedemptionContext, now time.Time) (*models.DiscountTerms, error) {
	// 1. The code must be active.
	if !pc.Active {
		return nil, ErrInvalid
	}

	// 2. Eligibility window, inclusive, at day granularity.
	today := dayOf(now)
	if pc.ValidFrom != nil && today.Before(dayOf(*pc.ValidFrom)) {
		return nil, ErrNotYetValid
	}
	if pc.ValidUntil != nil && today.After(dayOf(*pc.ValidUntil)) {
		return nil, ErrExpired
	}

	// 3. Overall usage limit (0 = unlimited).
	if pc.UsageLimit > 0 && pc.UsedCount >= pc.UsageLimit {
		return nil, ErrLimitReached
	}

	// 4. One redemption per email, across all roles.
	if email != "" && containsEmail(pc.UsedBy, email) {
		return nil, ErrAlreadyUsed
	}

	// 5. Kind-specific rules.
	role := ""
	switch pc.Kind {
	case models.PromoKindReferral:
		if pc.Referral == nil {
			return nil, ErrInvalid
		}
		if email != "" && sameEmail(email, pc.Referral.ReferrerEmail) {
			if !pc.Referral.RewardAvailable {
				return nil, ErrReferrerRewardUnavailable
			}
			role = models.PromoRoleReferrer
		} else {
			if pc.Referral.FriendUsesRemaining <= 0 {
				return nil, ErrFriendLimitReached
			}
			if pc.ExistingClientsOnly && rctx.IsFirstTimeClient {
				return nil, ErrFirstTimeBlocked
			}
			role = models.PromoRoleFriend
		}

	case models.PromoKindSalonReferral:
		if pc.Salon == nil {
			return nil, ErrInvalid
		}
		if pc.Salon.UsageLimit > 0 && pc.Salon.UsedCount >= pc.Salon.UsageLimit {
			return nil, ErrLimitReached
		}
		if !strings.EqualFold(rctx.ReferralType, pc.Salon.ReferralType) {
			return nil, ErrReferralTypeMismatch
		}
		if pc.FirstTimeOnly && !rctx.IsFirstTimeClient {
			return nil, ErrFirstTimeRequired
		}

	default: // plain card discount
		if pc.ExistingClientsOnly && rctx.IsFirstTimeClient {
			return nil, ErrFirstTimeBlocked
		}
		if pc.FirstTimeOnly && !rctx.IsFirstTimeClient {
			return nil, ErrFirstTimeRequired
		}
	}

	return &models.DiscountTerms{
		Code:        pc.Code,
		Type:        pc.Discount.Type,
		Value:       pc.Discount.Value,
		MinPurchase: pc.Discount.MinPurchase,
		MaxDiscount: pc.Discount.MaxDiscount,
		Role:        role,
	}, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sameEmail(a, b string) bool {
	return normalizeEmail(a) == normalizeEmail(b)
}

func containsEmail(list []string, email string) bool {
	for _, e := range list {
		if sameEmail(e, email) {
			return true
		}
	}
	return false
}
