package models

import "time"

// PromoKind tags the three promo-code variants. The kind-specific payloads
// below are nil for every other kind, so the record behaves as a tagged
// union with a shared eligibility header.
type PromoKind string

const (
	PromoKindCard          PromoKind = "card"
	PromoKindReferral      PromoKind = "referral"
	PromoKindSalonReferral PromoKind = "salonReferral"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Discount holds the monetary terms shared by every promo kind.
// Fixed values and bounds are in minor currency units; percentage values
// are whole percents (10 == 10%).
type Discount struct {
	Type        string `json:"type"`
	Value       int64  `json:"value"`
	MinPurchase int64  `json:"minPurchase,omitempty"`
	MaxDiscount int64  `json:"maxDiscount,omitempty"`
}

// ReferralTerms is the payload of a personal referral code. The referrer
// redemption is gated by RewardAvailable, friend redemptions by
// FriendUsesRemaining.
type ReferralTerms struct {
	ReferrerEmail       string `json:"referrerEmail"`
	FriendUsesRemaining int    `json:"friendUsesRemaining"`
	RewardAvailable     bool   `json:"rewardAvailable"`
}

// SalonTerms is the payload of a salon-to-salon referral code.
type SalonTerms struct {
	ReferralType string `json:"referralType"`
	UsageLimit   int    `json:"usageLimit,omitempty"` // 0 = unlimited
	UsedCount    int    `json:"usedCount"`
}

// PromoCode is a redeemable code owned by the promo ledger. It is never
// mutated outside the ledger's locked operations.
type PromoCode struct {
	Code     string    `json:"code"`
	Kind     PromoKind `json:"kind"`
	Discount Discount  `json:"discount"`

	// Eligibility window, inclusive, compared at day granularity.
	ValidFrom  *time.Time `json:"validFrom,omitempty"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`

	UsageLimit int      `json:"usageLimit,omitempty"` // 0 = unlimited
	UsedCount  int      `json:"usedCount"`
	UsedBy     []string `json:"usedByEmails"`

	// First-visit gating: FirstTimeOnly requires a first-time client,
	// ExistingClientsOnly forbids one.
	FirstTimeOnly       bool `json:"firstTimeOnly,omitempty"`
	ExistingClientsOnly bool `json:"existingClientsOnly,omitempty"`

	Referral *ReferralTerms `json:"referral,omitempty"`
	Salon    *SalonTerms    `json:"salon,omitempty"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Redemption roles for personal referral codes.
const (
	PromoRoleReferrer = "referrer"
	PromoRoleFriend   = "friend"
)

// RedemptionContext carries the caller-side facts the eligibility rules
// branch on.
type RedemptionContext struct {
	IsFirstTimeClient bool   `json:"isFirstTimeClient"`
	ReferralType      string `json:"referralType,omitempty"`
}

// DiscountTerms is the sanitized validation result handed back to pricing.
// It exposes nothing about usage counters or other clients' emails.
type DiscountTerms struct {
	Code        string `json:"code"`
	Type        string `json:"type"`
	Value       int64  `json:"value"`
	MinPurchase int64  `json:"minPurchase,omitempty"`
	MaxDiscount int64  `json:"maxDiscount,omitempty"`
	Role        string `json:"role,omitempty"` // referrer | friend, referral codes only
}
