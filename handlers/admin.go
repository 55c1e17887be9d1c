package handlers

import (
	"errors"
	"net/http"
	"time"

	"lashbook/models"
	"lashbook/services/giftcard"
	"lashbook/services/promo"
	"lashbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler is the key-gated surface for issuing promo codes, referral
// codes, and gift cards.
type AdminHandler struct {
	Promos    promo.Ledger
	GiftCards giftcard.Ledger
	Logger    *zap.Logger
}

func NewAdminHandler(promos promo.Ledger, giftCards giftcard.Ledger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Promos: promos, GiftCards: giftCards, Logger: logger}
}

type createPromoRequest struct {
	Code                string           `json:"code" binding:"required"`
	Kind                models.PromoKind `json:"kind" binding:"required"`
	Discount            models.Discount  `json:"discount" binding:"required"`
	ValidFrom           *time.Time       `json:"validFrom"`
	ValidUntil          *time.Time       `json:"validUntil"`
	UsageLimit          int              `json:"usageLimit"`
	FirstTimeOnly       bool             `json:"firstTimeOnly"`
	ExistingClientsOnly bool             `json:"existingClientsOnly"`

	// Personal referral codes.
	ReferrerEmail  string `json:"referrerEmail"`
	FriendUseLimit int    `json:"friendUseLimit"`

	// Salon-to-salon referral codes.
	ReferralType    string `json:"referralType"`
	SalonUsageLimit int    `json:"salonUsageLimit"`
}

// CreatePromo registers a promo code of any kind. The kind decides which
// payload fields are required.
func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var req createPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid promo code request", err.Error())
		return
	}
	if req.Discount.Type != models.DiscountPercentage && req.Discount.Type != models.DiscountFixed {
		utils.JSONError(c, http.StatusBadRequest, "Discount type must be percentage or fixed", "")
		return
	}

	code := models.PromoCode{
		Code:                req.Code,
		Kind:                req.Kind,
		Discount:            req.Discount,
		ValidFrom:           req.ValidFrom,
		ValidUntil:          req.ValidUntil,
		UsageLimit:          req.UsageLimit,
		FirstTimeOnly:       req.FirstTimeOnly,
		ExistingClientsOnly: req.ExistingClientsOnly,
		Active:              true,
	}

	switch req.Kind {
	case models.PromoKindCard:
	case models.PromoKindReferral:
		if req.ReferrerEmail == "" {
			utils.JSONError(c, http.StatusBadRequest, "Referral codes need a referrerEmail", "")
			return
		}
		uses := req.FriendUseLimit
		if uses <= 0 {
			uses = 1
		}
		// The referrer's reward stays locked until a friend redeems.
		code.Referral = &models.ReferralTerms{
			ReferrerEmail:       req.ReferrerEmail,
			FriendUsesRemaining: uses,
		}
	case models.PromoKindSalonReferral:
		if req.ReferralType == "" {
			utils.JSONError(c, http.StatusBadRequest, "Salon referral codes need a referralType", "")
			return
		}
		code.Salon = &models.SalonTerms{
			ReferralType: req.ReferralType,
			UsageLimit:   req.SalonUsageLimit,
		}
	default:
		utils.JSONError(c, http.StatusBadRequest, "Unknown promo kind", string(req.Kind))
		return
	}

	if err := h.Promos.Create(c.Request.Context(), code); err != nil {
		if errors.Is(err, promo.ErrCodeExists) {
			utils.JSONError(c, http.StatusConflict, err.Error(), "")
			return
		}
		h.Logger.Error("promo create failed", zap.String("code", req.Code), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not create the promo code", "")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": code.Code, "kind": code.Kind})
}

// GetPromo returns the raw promo record, counters and all.
func (h *AdminHandler) GetPromo(c *gin.Context) {
	code, err := h.Promos.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, promo.ErrInvalid) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		h.Logger.Error("promo lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load the promo code", "")
		return
	}
	c.JSON(http.StatusOK, code)
}

type issueGiftCardRequest struct {
	Code        string     `json:"code" binding:"required"`
	Amount      int64      `json:"amount" binding:"required,gt=0"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	PurchasedBy string     `json:"purchasedBy"`
	RecipientOf string     `json:"recipientOf"`
}

// IssueGiftCard registers a new gift card at its purchase value.
func (h *AdminHandler) IssueGiftCard(c *gin.Context) {
	var req issueGiftCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid gift card request", err.Error())
		return
	}

	card, err := h.GiftCards.Issue(c.Request.Context(), models.GiftCard{
		Code:        req.Code,
		Amount:      req.Amount,
		ExpiresAt:   req.ExpiresAt,
		PurchasedBy: req.PurchasedBy,
		RecipientOf: req.RecipientOf,
	})
	if err != nil {
		if errors.Is(err, giftcard.ErrCodeExists) {
			utils.JSONError(c, http.StatusConflict, err.Error(), "")
			return
		}
		h.Logger.Error("gift card issue failed", zap.String("code", req.Code), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not issue the gift card", "")
		return
	}
	c.JSON(http.StatusCreated, card)
}
