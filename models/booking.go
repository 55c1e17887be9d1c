package models

import "time"

// BookingStatus values. A booking record only ever exists in the confirmed
// state; tentative state lives in Reservation + PendingBooking.
const (
	BookingStatusConfirmed = "confirmed"
)

// Reservation is an exclusive, time-bounded claim on a (date, timeSlot) pair.
// At most one reservation exists per pair at any time.
type Reservation struct {
	Date             string    `json:"date"`     // "YYYY-MM-DD"
	TimeSlot         string    `json:"timeSlot"` // e.g. "10:00"
	BookingReference string    `json:"bookingReference"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BookingPayload carries the draft booking fields collected at checkout.
// It is frozen into the pending booking and copied verbatim onto the
// confirmed booking when payment lands.
type BookingPayload struct {
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`
	Service     string `json:"service"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Notes       string `json:"notes,omitempty"`

	// Pricing, in minor currency units.
	ListPrice  int64 `json:"listPrice"`
	FinalPrice int64 `json:"finalPrice"`
	Deposit    int64 `json:"deposit"`

	// Optional redemptions resolved at confirmation time.
	PromoCode        string `json:"promoCode,omitempty"`
	ReferralType     string `json:"referralType,omitempty"`
	GiftCardCode     string `json:"giftCardCode,omitempty"`
	GiftCardAmount   int64  `json:"giftCardAmount,omitempty"`
	IsFirstTimeVisit bool   `json:"isFirstTimeVisit,omitempty"`
}

// PendingBooking is a tentative booking awaiting payment confirmation,
// keyed uniquely by its booking reference.
type PendingBooking struct {
	BookingReference string         `json:"bookingReference"`
	Payload          BookingPayload `json:"payload"`
	PaymentReference string         `json:"paymentReference,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// Booking is a confirmed booking record. Append-only once created; the
// booking reference maps to at most one confirmed booking.
type Booking struct {
	ID               string         `bson:"id" json:"id"`
	BookingReference string         `bson:"bookingReference" json:"bookingReference"`
	Date             string         `bson:"date" json:"date"`
	TimeSlot         string         `bson:"timeSlot" json:"timeSlot"`
	FinalPrice       int64          `bson:"finalPrice" json:"finalPrice"`
	Deposit          int64          `bson:"deposit" json:"deposit"`
	PaymentReference string         `bson:"paymentReference" json:"paymentReference"`
	Status           string         `bson:"status" json:"status"`
	CalendarEventID  string         `bson:"calendarEventId,omitempty" json:"calendarEventId,omitempty"`
	Payload          BookingPayload `bson:"payload" json:"payload"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
}

// CheckoutRequest starts the reservation + pending-booking flow.
type CheckoutRequest struct {
	ClientName       string `json:"clientName" binding:"required"`
	ClientEmail      string `json:"clientEmail" binding:"required,email"`
	ClientPhone      string `json:"clientPhone"`
	Service          string `json:"service" binding:"required"`
	Date             string `json:"date" binding:"required"`
	TimeSlot         string `json:"timeSlot" binding:"required"`
	Notes            string `json:"notes"`
	ListPrice        int64  `json:"listPrice" binding:"required"`
	Deposit          int64  `json:"deposit" binding:"required"`
	PromoCode        string `json:"promoCode"`
	ReferralType     string `json:"referralType"`
	GiftCardCode     string `json:"giftCardCode"`
	GiftCardAmount   int64  `json:"giftCardAmount"`
	IsFirstTimeVisit bool   `json:"isFirstTimeVisit"`
}

// CheckoutResponse hands the client its booking reference and the gateway
// authorization URL to complete payment.
type CheckoutResponse struct {
	BookingReference string `json:"bookingReference"`
	PaymentReference string `json:"paymentReference"`
	AuthorizationURL string `json:"authorizationUrl"`
	FinalPrice       int64  `json:"finalPrice"`
	Deposit          int64  `json:"deposit"`
}

// ConfirmationResponse is returned by the client-driven confirm endpoint.
type ConfirmationResponse struct {
	Booking          *Booking `json:"booking"`
	AlreadyConfirmed bool     `json:"alreadyConfirmed"`
	ManageToken      string   `json:"manageToken,omitempty"`
}
