package handlers

// HandlerBundle aggregates the handler groups so route registration takes
// a single dependency.
type HandlerBundle struct {
	Booking  *BookingHandler
	Webhook  *WebhookHandler
	Promo    *PromoHandler
	GiftCard *GiftCardHandler
	Admin    *AdminHandler
}
