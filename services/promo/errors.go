package promo

import "errors"

// Eligibility rejections. Each carries a specific, human-readable reason so
// the client UI can suggest a remedy instead of a generic failure.
var (
	ErrInvalid                   = errors.New("this promo code is not valid")
	ErrNotYetValid               = errors.New("this promo code is not active yet")
	ErrExpired                   = errors.New("this promo code has expired")
	ErrLimitReached              = errors.New("this promo code has reached its usage limit")
	ErrAlreadyUsed               = errors.New("this promo code has already been used with your email")
	ErrFirstTimeBlocked          = errors.New("this promo code cannot be used on a first visit")
	ErrFirstTimeRequired         = errors.New("this promo code is for first-time clients only")
	ErrFriendLimitReached        = errors.New("this referral code has no friend uses remaining")
	ErrReferrerRewardUnavailable = errors.New("your referral reward is not available yet")
	ErrReferralTypeMismatch      = errors.New("this code requires selecting the matching referral option")
	ErrMinPurchaseNotMet         = errors.New("the booking total is below this code's minimum purchase")
	ErrCodeExists                = errors.New("a promo code with this name already exists")
)
