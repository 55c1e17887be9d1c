package ledgerRepo

import "strings"

// Key prefixes. One logical record class per prefix; lock granularity is the
// full key, so two bookings touching different slots never contend.
const (
	slotPrefix     = "slot:"
	slotRefPrefix  = "slotref:"
	pendingPrefix  = "pending:"
	promoPrefix    = "promo:"
	giftCardPrefix = "giftcard:"
	confirmPrefix  = "confirm:"
	clientPrefix   = "client:"
)

// SlotKey identifies the reservation record for a (date, timeSlot) pair.
func SlotKey(date, timeSlot string) string {
	return slotPrefix + date + ":" + timeSlot
}

// SlotRefKey is the reverse index from a booking reference to the slot key
// its reservation lives under, so release-by-reference needs no scan.
func SlotRefKey(bookingReference string) string {
	return slotRefPrefix + bookingReference
}

// PendingKey identifies a pending booking by its reference.
func PendingKey(bookingReference string) string {
	return pendingPrefix + bookingReference
}

// PromoKey identifies a promo code record. Codes are case-insensitive.
func PromoKey(code string) string {
	return promoPrefix + NormalizeCode(code)
}

// GiftCardKey identifies a gift card record by its normalized code.
func GiftCardKey(code string) string {
	return giftCardPrefix + NormalizeCode(code)
}

// ConfirmKey serializes confirmation attempts for one booking reference.
func ConfirmKey(bookingReference string) string {
	return confirmPrefix + bookingReference
}

// ClientKey identifies a client profile by normalized email.
func ClientKey(email string) string {
	return clientPrefix + strings.ToLower(strings.TrimSpace(email))
}

// SlotPrefix exposes the reservation prefix for sweep jobs.
func SlotPrefix() string { return slotPrefix }

// PendingPrefix exposes the pending-booking prefix for sweep jobs.
func PendingPrefix() string { return pendingPrefix }

// NormalizeCode upper-cases a promo or gift-card code and strips spaces and
// dashes, so lookup is format-insensitive.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, " ", "")
	code = strings.ReplaceAll(code, "-", "")
	return code
}
