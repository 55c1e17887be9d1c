package handlers

import (
	"errors"
	"net/http"

	"lashbook/services/giftcard"
	"lashbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GiftCardHandler exposes balance lookups to the checkout UI.
type GiftCardHandler struct {
	GiftCards giftcard.Ledger
	Logger    *zap.Logger
}

func NewGiftCardHandler(giftCards giftcard.Ledger, logger *zap.Logger) *GiftCardHandler {
	return &GiftCardHandler{GiftCards: giftCards, Logger: logger}
}

// GetGiftCard returns the card's status and remaining balance. The full
// record (purchaser, redemption trail) stays on the admin surface.
func (h *GiftCardHandler) GetGiftCard(c *gin.Context) {
	card, err := h.GiftCards.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, giftcard.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		h.Logger.Error("gift card lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load the gift card", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":      card.Code,
		"status":    card.Status,
		"amount":    card.Amount,
		"expiresAt": card.ExpiresAt,
	})
}
