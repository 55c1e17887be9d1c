package client

import (
	"context"
	"errors"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"

	"go.uber.org/zap"
)

// ErrNotFound is returned when no profile exists for an email.
var ErrNotFound = errors.New("client: profile not found")

// ProfileService maintains client profiles and their lash history. Profiles
// feed the promo ledger's first-time-client checks and give the studio a
// treatment record per client.
type ProfileService interface {
	GetProfile(ctx context.Context, email string) (*models.ClientProfile, error)
	// IsFirstTimeClient reports whether the email has no prior visits.
	IsFirstTimeClient(ctx context.Context, email string) (bool, error)
	// UpsertFromBooking appends a lash-history entry for a confirmed
	// booking and bumps the visit count.
	UpsertFromBooking(ctx context.Context, booking *models.Booking) error
}

// DefaultProfileService implements ProfileService on the ledger store.
type DefaultProfileService struct {
	Store  ledgerRepo.Store
	Logger *zap.Logger
}

func NewDefaultProfileService(store ledgerRepo.Store, logger *zap.Logger) *DefaultProfileService {
	return &DefaultProfileService{Store: store, Logger: logger}
}

func (s *DefaultProfileService) GetProfile(ctx context.Context, email string) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	err := ledgerRepo.ReadJSON(ctx, s.Store, ledgerRepo.ClientKey(email), &profile)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *DefaultProfileService) IsFirstTimeClient(ctx context.Context, email string) (bool, error) {
	profile, err := s.GetProfile(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return profile.VisitCount == 0, nil
}

func (s *DefaultProfileService) UpsertFromBooking(ctx context.Context, booking *models.Booking) error {
	key := ledgerRepo.ClientKey(booking.Payload.ClientEmail)
	return s.Store.WithKeyLock(key, func() error {
		now := time.Now()
		var profile models.ClientProfile
		err := ledgerRepo.ReadJSON(ctx, s.Store, key, &profile)
		if errors.Is(err, ledgerRepo.ErrNotFound) {
			profile = models.ClientProfile{
				Email:       booking.Payload.ClientEmail,
				FirstSeenAt: now,
			}
		} else if err != nil {
			return err
		}

		// A booking may be finalized twice if a queued task retries; the
		// history append must stay idempotent per booking id.
		for _, rec := range profile.LashHistory {
			if rec.BookingID == booking.ID {
				return nil
			}
		}

		profile.Name = booking.Payload.ClientName
		if booking.Payload.ClientPhone != "" {
			profile.Phone = booking.Payload.ClientPhone
		}
		profile.VisitCount++
		profile.LastSeenAt = now
		profile.LashHistory = append(profile.LashHistory, models.LashRecord{
			BookingID: booking.ID,
			Date:      booking.Date,
			TimeSlot:  booking.TimeSlot,
			Service:   booking.Payload.Service,
			Price:     booking.FinalPrice,
			Notes:     booking.Payload.Notes,
			CreatedAt: now,
		})

		if err := ledgerRepo.WriteJSON(ctx, s.Store, key, &profile); err != nil {
			return err
		}
		s.Logger.Info("client profile updated",
			zap.String("email", profile.Email),
			zap.Int("visitCount", profile.VisitCount),
		)
		return nil
	})
}
