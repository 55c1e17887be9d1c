package calendar

import (
	"context"
	"fmt"
	"time"

	"lashbook/models"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Service mirrors the salon's appointment book into an external calendar.
// Strictly best-effort: callers log failures and move on, a missing event
// never affects a confirmed booking.
type Service interface {
	CreateEvent(ctx context.Context, booking *models.Booking) (string, error)
}

// GoogleCalendarService implements Service on the Google Calendar API.
type GoogleCalendarService struct {
	CalendarID      string
	Timezone        string
	SlotMinutes     int
	CredentialsFile string
	Logger          *zap.Logger
}

func NewGoogleCalendarService(calendarID, timezone, credentialsFile string, slotMinutes int, logger *zap.Logger) *GoogleCalendarService {
	return &GoogleCalendarService{
		CalendarID:      calendarID,
		Timezone:        timezone,
		SlotMinutes:     slotMinutes,
		CredentialsFile: credentialsFile,
		Logger:          logger,
	}
}

func (s *GoogleCalendarService) CreateEvent(ctx context.Context, booking *models.Booking) (string, error) {
	svc, err := calendar.NewService(ctx, option.WithCredentialsFile(s.CredentialsFile))
	if err != nil {
		return "", fmt.Errorf("calendar: init service: %w", err)
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", booking.Date+" "+booking.TimeSlot, loc)
	if err != nil {
		return "", fmt.Errorf("calendar: parse booking time %q %q: %w", booking.Date, booking.TimeSlot, err)
	}
	end := start.Add(time.Duration(s.SlotMinutes) * time.Minute)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s — %s", booking.Payload.Service, booking.Payload.ClientName),
		Description: fmt.Sprintf("Booking %s\n%s", booking.BookingReference, booking.Payload.Notes),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: s.Timezone},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: s.Timezone},
	}

	created, err := svc.Events.Insert(s.CalendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	s.Logger.Info("calendar event created",
		zap.String("eventId", created.Id),
		zap.String("bookingId", booking.ID),
	)
	return created.Id, nil
}
