package handlers

import (
	"errors"
	"net/http"
	"time"

	"lashbook/models"
	"lashbook/services/booking"
	"lashbook/services/giftcard"
	"lashbook/services/promo"
	"lashbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the checkout and confirmation pipeline.
type BookingHandler struct {
	Checkout     booking.CheckoutService
	Confirmation booking.ConfirmationService
	Logger       *zap.Logger
}

func NewBookingHandler(checkout booking.CheckoutService, confirmation booking.ConfirmationService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Checkout: checkout, Confirmation: confirmation, Logger: logger}
}

// StartCheckout reserves the slot and opens the payment session.
func (h *BookingHandler) StartCheckout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid checkout request", err.Error())
		return
	}

	resp, err := h.Checkout.StartCheckout(c.Request.Context(), req)
	if err != nil {
		status, message := checkoutErrorStatus(err)
		utils.JSONError(c, status, message, "")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

type confirmRequest struct {
	BookingReference string `json:"bookingReference" binding:"required"`
	PaymentReference string `json:"paymentReference" binding:"required"`
}

// ConfirmBooking is the client-driven confirmation entry point. It calls
// the same Confirm operation the webhook does.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid confirmation request", err.Error())
		return
	}

	confirmed, already, err := h.Confirmation.Confirm(c.Request.Context(), req.BookingReference, req.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrPaymentNotVerified):
			utils.JSONError(c, http.StatusPaymentRequired, err.Error(), "")
		case errors.Is(err, booking.ErrNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
		default:
			h.Logger.Error("confirmation failed", zap.String("reference", req.BookingReference), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Could not confirm the booking", "")
		}
		return
	}

	token, err := utils.GenerateManageToken(confirmed.BookingReference, confirmed.Payload.ClientEmail, 90*24*time.Hour)
	if err != nil {
		h.Logger.Warn("failed to issue manage token", zap.Error(err))
	}
	c.JSON(http.StatusOK, models.ConfirmationResponse{
		Booking:          confirmed,
		AlreadyConfirmed: already,
		ManageToken:      token,
	})
}

// GetBooking returns a confirmed booking by its (unguessable) reference.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	reference := c.Param("reference")
	confirmed, err := h.Confirmation.Lookup(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error(), "")
			return
		}
		h.Logger.Error("booking lookup failed", zap.String("reference", reference), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load the booking", "")
		return
	}
	c.JSON(http.StatusOK, confirmed)
}

// checkoutErrorStatus maps checkout failures to HTTP statuses with their
// user-facing reason so the UI can suggest a remedy.
func checkoutErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, booking.ErrDuplicateReference):
		return http.StatusInternalServerError, "Could not start checkout, please try again"
	case errors.Is(err, promo.ErrInvalid),
		errors.Is(err, promo.ErrNotYetValid),
		errors.Is(err, promo.ErrExpired),
		errors.Is(err, promo.ErrLimitReached),
		errors.Is(err, promo.ErrAlreadyUsed),
		errors.Is(err, promo.ErrFirstTimeBlocked),
		errors.Is(err, promo.ErrFirstTimeRequired),
		errors.Is(err, promo.ErrFriendLimitReached),
		errors.Is(err, promo.ErrReferrerRewardUnavailable),
		errors.Is(err, promo.ErrReferralTypeMismatch),
		errors.Is(err, promo.ErrMinPurchaseNotMet):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, giftcard.ErrNotFound),
		errors.Is(err, giftcard.ErrNotActive),
		errors.Is(err, giftcard.ErrExpired),
		errors.Is(err, giftcard.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, "Could not start checkout, please try again"
	}
}
