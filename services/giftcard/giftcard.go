package giftcard

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLedger implements Ledger on the keyed ledger store.
type DefaultLedger struct {
	Store  ledgerRepo.Store
	Logger *zap.Logger
}

func NewDefaultLedger(store ledgerRepo.Store, logger *zap.Logger) *DefaultLedger {
	return &DefaultLedger{Store: store, Logger: logger}
}

func (l *DefaultLedger) FindByCode(ctx context.Context, code string) (*models.GiftCard, error) {
	key := ledgerRepo.GiftCardKey(code)

	var card *models.GiftCard
	err := l.Store.WithKeyLock(key, func() error {
		c, err := l.load(ctx, key)
		if err != nil {
			return err
		}
		// Lazy expiry: persist the flip before handing the card out so a
		// stale active status never escapes.
		if c.Status == models.GiftCardActive && c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt) {
			c.Status = models.GiftCardExpired
			if err := ledgerRepo.WriteJSON(ctx, l.Store, key, c); err != nil {
				return fmt.Errorf("giftcard: persist expiry of %q: %w", c.Code, err)
			}
			l.Logger.Info("gift card lazily expired", zap.String("code", c.Code))
		}
		card = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (l *DefaultLedger) Redeem(ctx context.Context, code string, amount int64, bookingID, redeemedBy string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	key := ledgerRepo.GiftCardKey(code)

	var remaining int64
	err := l.Store.WithKeyLock(key, func() error {
		card, err := l.load(ctx, key)
		if err != nil {
			return err
		}
		// Status and expiry are re-checked under the lock; any earlier
		// FindByCode was advisory.
		if card.ExpiresAt != nil && time.Now().After(*card.ExpiresAt) {
			if card.Status == models.GiftCardActive {
				card.Status = models.GiftCardExpired
				if err := ledgerRepo.WriteJSON(ctx, l.Store, key, card); err != nil {
					return fmt.Errorf("giftcard: persist expiry of %q: %w", card.Code, err)
				}
			}
			return ErrExpired
		}
		if card.Status != models.GiftCardActive {
			return ErrNotActive
		}
		if amount > card.Amount {
			return ErrInsufficientBalance
		}

		now := time.Now()
		card.Amount -= amount
		if card.Amount == 0 {
			card.Status = models.GiftCardRedeemed
		}
		card.RedeemedAt = &now
		card.RedeemedBookingID = bookingID
		card.RedeemedBy = redeemedBy

		if err := ledgerRepo.WriteJSON(ctx, l.Store, key, card); err != nil {
			return fmt.Errorf("giftcard: persist redemption of %q: %w", card.Code, err)
		}
		remaining = card.Amount
		l.Logger.Info("gift card redeemed",
			zap.String("code", card.Code),
			zap.Int64("amount", amount),
			zap.Int64("remaining", remaining),
			zap.String("bookingId", bookingID),
		)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func (l *DefaultLedger) Issue(ctx context.Context, card models.GiftCard) (*models.GiftCard, error) {
	card.Code = ledgerRepo.NormalizeCode(card.Code)
	if card.Code == "" {
		return nil, ErrNotFound
	}
	if card.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	key := ledgerRepo.GiftCardKey(card.Code)

	err := l.Store.WithKeyLock(key, func() error {
		if _, err := l.Store.Get(ctx, key); err == nil {
			return ErrCodeExists
		} else if !errors.Is(err, ledgerRepo.ErrNotFound) {
			return err
		}
		card.ID = uuid.New().String()
		card.OriginalAmount = card.Amount
		card.Status = models.GiftCardActive
		card.CreatedAt = time.Now()
		return ledgerRepo.WriteJSON(ctx, l.Store, key, &card)
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (l *DefaultLedger) load(ctx context.Context, key string) (*models.GiftCard, error) {
	var card models.GiftCard
	err := ledgerRepo.ReadJSON(ctx, l.Store, key, &card)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}
