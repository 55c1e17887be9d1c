package handlers

import (
	"errors"
	"io"
	"net/http"

	"lashbook/services/booking"
	"lashbook/services/payment"
	"lashbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives gateway callbacks and drives them through the
// same confirmation pipeline the client-facing endpoint uses.
type WebhookHandler struct {
	Gateway      payment.Gateway
	Confirmation booking.ConfirmationService
	Logger       *zap.Logger
}

func NewWebhookHandler(gateway payment.Gateway, confirmation booking.ConfirmationService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Gateway: gateway, Confirmation: confirmation, Logger: logger}
}

// HandlePaymentWebhook verifies the gateway signature and confirms the
// referenced booking. Duplicate deliveries are absorbed by the pipeline's
// idempotency, so a redelivered event simply returns the existing booking.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read webhook payload", "")
		return
	}

	event, err := h.Gateway.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.Logger.Warn("rejected webhook", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid webhook signature", "")
		return
	}
	if !event.PaymentCompleted || event.BookingReference == "" {
		// Event types we do not act on are acknowledged so the gateway
		// stops redelivering them.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	confirmed, already, err := h.Confirmation.Confirm(c.Request.Context(), event.BookingReference, event.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			// No pending booking for this reference (likely already swept).
			// Acknowledge so the gateway does not retry forever; the payment
			// shows up in the gateway dashboard for manual follow-up.
			h.Logger.Error("webhook for unknown booking",
				zap.String("reference", event.BookingReference),
				zap.String("paymentReference", event.PaymentReference))
			c.JSON(http.StatusOK, gin.H{"received": true})
		case errors.Is(err, booking.ErrPaymentNotVerified):
			h.Logger.Warn("webhook payment not verified", zap.String("reference", event.BookingReference))
			utils.JSONError(c, http.StatusPaymentRequired, err.Error(), "")
		default:
			// Transient failure: non-2xx so the gateway redelivers.
			h.Logger.Error("webhook confirmation failed", zap.String("reference", event.BookingReference), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Confirmation failed", "")
		}
		return
	}

	h.Logger.Info("webhook confirmed booking",
		zap.String("reference", confirmed.BookingReference),
		zap.Bool("alreadyConfirmed", already))
	c.JSON(http.StatusOK, gin.H{"received": true, "bookingReference": confirmed.BookingReference})
}
