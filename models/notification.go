package models

// FinalizePayload is the queued task body for post-commit booking side
// effects (calendar event, client profile upsert, confirmation email).
type FinalizePayload struct {
	BookingID string `json:"bookingId"`
}

// EmailMessage is a fire-and-forget outbound email.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
