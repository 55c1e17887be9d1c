package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "lashbook/database/repository/booking"
	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"
	"lashbook/services/giftcard"
	"lashbook/services/payment"
	"lashbook/services/promo"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const verifyCachePrefix = "payverify:"

// DefaultConfirmationService implements ConfirmationService. It is the only
// writer that promotes a pending booking, and both webhook and client
// confirmation requests go through it.
type DefaultConfirmationService struct {
	Gateway      payment.Gateway
	Pending      PendingStore
	Reservations ReservationManager
	Bookings     bookingRepo.BookingRepository
	GiftCards    giftcard.Ledger
	Promos       promo.Ledger
	Store        ledgerRepo.Store
	Tasks        TaskQueue
	Finalizer    *Finalizer

	// CacheClient, when set, memoizes successful gateway verifications so a
	// webhook and a client confirm racing on the same payment hit the
	// gateway once.
	CacheClient *redis.Client
	VerifyTTL   time.Duration

	Logger *zap.Logger
}

func (s *DefaultConfirmationService) Confirm(ctx context.Context, bookingReference, paymentReference string) (*models.Booking, bool, error) {
	if bookingReference == "" || paymentReference == "" {
		return nil, false, ErrNotFound
	}

	// Step 1: verification. Read-only against the gateway, safe to repeat,
	// and performs no local mutation on failure.
	verification, err := s.verifyPayment(ctx, paymentReference)
	if err != nil {
		s.Logger.Warn("payment verification failed",
			zap.String("reference", bookingReference),
			zap.String("paymentReference", paymentReference),
			zap.Error(err),
		)
		return nil, false, ErrPaymentNotVerified
	}
	if verification.Status != models.PaymentStatusSuccess {
		return nil, false, ErrPaymentNotVerified
	}

	// Step 2: idempotency short-circuit. Repeated webhook deliveries and
	// the webhook/confirm race both land here.
	if existing := s.findConfirmed(ctx, bookingReference, paymentReference); existing != nil {
		return existing, true, nil
	}

	// Step 3: promotion, serialized per booking reference.
	var (
		confirmed *models.Booking
		already   bool
	)
	err = s.Store.WithKeyLock(ledgerRepo.ConfirmKey(bookingReference), func() error {
		if existing := s.findConfirmed(ctx, bookingReference, paymentReference); existing != nil {
			confirmed, already = existing, true
			return nil
		}

		pending, err := s.Pending.Consume(ctx, bookingReference)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// Lost the consume race, or the reference never existed.
				if existing := s.findConfirmed(ctx, bookingReference, paymentReference); existing != nil {
					confirmed, already = existing, true
					return nil
				}
				return ErrNotFound
			}
			return err
		}

		booking := &models.Booking{
			ID:               uuid.New().String(),
			BookingReference: bookingReference,
			Date:             pending.Payload.Date,
			TimeSlot:         pending.Payload.TimeSlot,
			FinalPrice:       pending.Payload.FinalPrice,
			Deposit:          pending.Payload.Deposit,
			PaymentReference: paymentReference,
			Status:           models.BookingStatusConfirmed,
			Payload:          pending.Payload,
			CreatedAt:        time.Now(),
		}

		if err := s.Bookings.Create(ctx, booking); err != nil {
			// A duplicate that resolves to a confirmed booking needs no
			// pending record; restoring one would only leave it for the sweep.
			if errors.Is(err, bookingRepo.ErrDuplicateReference) {
				if existing := s.findConfirmed(ctx, bookingReference, paymentReference); existing != nil {
					confirmed, already = existing, true
					return nil
				}
			}
			// The pending payload must survive so a retry can succeed.
			if rerr := s.Pending.Restore(ctx, *pending); rerr != nil {
				s.Logger.Error("failed to restore pending booking after write failure",
					zap.String("reference", bookingReference), zap.Error(rerr))
			}
			return fmt.Errorf("confirm: persist booking: %w", err)
		}

		// Commit point. Nothing below may unwind the booking.
		s.settleLedgers(ctx, booking, pending)
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if !already {
		s.Logger.Info("booking confirmed",
			zap.String("bookingId", confirmed.ID),
			zap.String("reference", bookingReference),
			zap.String("paymentReference", paymentReference),
		)
		s.dispatchSideEffects(confirmed.ID)
	}
	return confirmed, already, nil
}

func (s *DefaultConfirmationService) Lookup(ctx context.Context, bookingReference string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByReference(ctx, bookingReference)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// settleLedgers releases the slot and settles the promo and gift-card
// ledgers after the confirmed booking is durable. Failures here are operator
// incidents, not booking failures.
func (s *DefaultConfirmationService) settleLedgers(ctx context.Context, booking *models.Booking, pending *models.PendingBooking) {
	if err := s.Reservations.Release(ctx, booking.BookingReference); err != nil {
		s.Logger.Error("confirmed booking left its reservation behind",
			zap.String("bookingId", booking.ID), zap.Error(err))
	}

	payload := pending.Payload
	if payload.GiftCardCode != "" {
		amount := payload.GiftCardAmount
		if amount <= 0 {
			amount = payload.Deposit
		}
		if amount > 0 {
			_, err := s.GiftCards.Redeem(ctx, payload.GiftCardCode, amount, booking.ID, payload.ClientEmail)
			if err != nil {
				s.Logger.Error("gift card redemption failed after commit",
					zap.String("bookingId", booking.ID),
					zap.String("code", payload.GiftCardCode),
					zap.Error(err),
				)
			}
		}
	}

	if payload.PromoCode != "" {
		err := s.Promos.Redeem(ctx, payload.PromoCode, payload.ClientEmail, models.RedemptionContext{
			IsFirstTimeClient: payload.IsFirstTimeVisit,
			ReferralType:      payload.ReferralType,
		})
		if err != nil {
			s.Logger.Error("promo redemption failed after commit",
				zap.String("bookingId", booking.ID),
				zap.String("code", payload.PromoCode),
				zap.Error(err),
			)
		}
	}
}

// dispatchSideEffects hands the best-effort work (calendar, profile, email)
// to the background queue, falling back to a detached goroutine so a queue
// outage cannot delay or fail the confirmation response.
func (s *DefaultConfirmationService) dispatchSideEffects(bookingID string) {
	if s.Tasks != nil {
		if err := s.Tasks.EnqueueBookingFinalize(context.Background(), bookingID); err == nil {
			return
		} else {
			s.Logger.Error("failed to enqueue booking finalize task",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}
	if s.Finalizer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.Finalizer.Run(ctx, bookingID); err != nil {
				s.Logger.Error("inline booking finalize failed",
					zap.String("bookingId", bookingID), zap.Error(err))
			}
		}()
	}
}

func (s *DefaultConfirmationService) findConfirmed(ctx context.Context, bookingReference, paymentReference string) *models.Booking {
	if booking, err := s.Bookings.GetByReference(ctx, bookingReference); err == nil {
		return booking
	}
	if booking, err := s.Bookings.GetByPaymentReference(ctx, paymentReference); err == nil {
		return booking
	}
	return nil
}

func (s *DefaultConfirmationService) verifyPayment(ctx context.Context, paymentReference string) (*models.PaymentVerification, error) {
	cacheKey := verifyCachePrefix + paymentReference
	if s.CacheClient != nil {
		if raw, err := s.CacheClient.Get(ctx, cacheKey).Result(); err == nil {
			var cached models.PaymentVerification
			if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil {
				return &cached, nil
			}
		}
	}

	verification, err := s.Gateway.Verify(ctx, paymentReference)
	if err != nil {
		return nil, err
	}

	// Only terminal successes are worth memoizing; pending and failed
	// states may still change on the gateway side.
	if s.CacheClient != nil && verification.Status == models.PaymentStatusSuccess {
		if raw, jerr := json.Marshal(verification); jerr == nil {
			ttl := s.VerifyTTL
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			if cerr := s.CacheClient.Set(ctx, cacheKey, raw, ttl).Err(); cerr != nil {
				s.Logger.Warn("failed to cache payment verification", zap.Error(cerr))
			}
		}
	}
	return verification, nil
}
