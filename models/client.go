package models

import "time"

// LashRecord is one appointment in a client's treatment history.
type LashRecord struct {
	BookingID string    `json:"bookingId"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"timeSlot"`
	Service   string    `json:"service"`
	Price     int64     `json:"price"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientProfile aggregates everything known about a client, keyed by
// normalized email. Upserted as a best-effort side effect after a booking
// confirms.
type ClientProfile struct {
	Email       string       `json:"email"`
	Name        string       `json:"name,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	VisitCount  int          `json:"visitCount"`
	LashHistory []LashRecord `json:"lashHistory,omitempty"`
	FirstSeenAt time.Time    `json:"firstSeenAt"`
	LastSeenAt  time.Time    `json:"lastSeenAt"`
}
