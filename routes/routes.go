package routes

import (
	"net/http"
	"time"

	"lashbook/handlers"
	"lashbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up checkout, confirmation and lookup.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/checkout", hb.Booking.StartCheckout)
		api.POST("/bookings/confirm", hb.Booking.ConfirmBooking)
		api.GET("/bookings/:reference", hb.Booking.GetBooking)
	}
}

// RegisterLedgerRoutes sets up the public promo and gift-card lookups.
func RegisterLedgerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/promo/validate", hb.Promo.ValidatePromo)
		api.GET("/giftcards/:code", hb.GiftCard.GetGiftCard)
	}
}

// RegisterWebhookRoutes sets up gateway callbacks. These sit outside the
// rate limiter so a burst of gateway redeliveries is never throttled.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/webhooks/payment", hb.Webhook.HandlePaymentWebhook)
}

// RegisterAdminRoutes sets up endpoints for issuing promos and gift cards.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.POST("/promos", hb.Admin.CreatePromo)
		adminGroup.GET("/promos/:code", hb.Admin.GetPromo)
		adminGroup.POST("/giftcards", hb.Admin.IssueGiftCard)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Admin-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, hb)
	RegisterHealthRoute(r)

	r.Use(middleware.RateLimitMiddleware())
	RegisterBookingRoutes(r, hb)
	RegisterLedgerRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
