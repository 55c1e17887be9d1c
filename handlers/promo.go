package handlers

import (
	"net/http"

	"lashbook/models"
	"lashbook/services/promo"
	"lashbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PromoHandler exposes promo validation to the checkout UI.
type PromoHandler struct {
	Promos promo.Ledger
	Logger *zap.Logger
}

func NewPromoHandler(promos promo.Ledger, logger *zap.Logger) *PromoHandler {
	return &PromoHandler{Promos: promos, Logger: logger}
}

type validatePromoRequest struct {
	Code              string `json:"code" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	IsFirstTimeClient bool   `json:"isFirstTimeClient"`
	ReferralType      string `json:"referralType"`
	Price             int64  `json:"price"` // optional: when set, the projected discount is included
}

// ValidatePromo checks eligibility without consuming anything, so the UI
// can show the discount before checkout starts.
func (h *PromoHandler) ValidatePromo(c *gin.Context) {
	var req validatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid promo validation request", err.Error())
		return
	}

	terms, err := h.Promos.Validate(c.Request.Context(), req.Code, req.Email, models.RedemptionContext{
		IsFirstTimeClient: req.IsFirstTimeClient,
		ReferralType:      req.ReferralType,
	})
	if err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}

	resp := gin.H{"valid": true, "terms": terms}
	if req.Price > 0 {
		discount, err := promo.Apply(terms, req.Price)
		if err != nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")
			return
		}
		resp["price"] = req.Price
		resp["discount"] = discount
		resp["discountedPrice"] = req.Price - discount
	}
	c.JSON(http.StatusOK, resp)
}
