package promo

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"

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

func (l *DefaultLedger) Validate(ctx context.Context, code, email string, rctx models.RedemptionContext) (*models.DiscountTerms, error) {
	pc, err := l.load(ctx, code)
	if err != nil {
		return nil, err
	}
	return eligibility(pc, email, rctx, time.Now())
}

func (l *DefaultLedger) Redeem(ctx context.Context, code, email string, rctx models.RedemptionContext) error {
	key := ledgerRepo.PromoKey(code)
	return l.Store.WithKeyLock(key, func() error {
		// Any validation done before this lock was advisory; re-check inside
		// the same critical section as the mutation.
		pc, err := l.load(ctx, code)
		if err != nil {
			return err
		}
		terms, err := eligibility(pc, email, rctx, time.Now())
		if err != nil {
			return err
		}

		pc.UsedCount++
		if email != "" {
			pc.UsedBy = append(pc.UsedBy, normalizeEmail(email))
		}
		switch {
		case terms.Role == models.PromoRoleReferrer:
			pc.Referral.RewardAvailable = false
		case terms.Role == models.PromoRoleFriend:
			pc.Referral.FriendUsesRemaining--
			// A friend redemption unlocks the referrer's reward.
			pc.Referral.RewardAvailable = true
		case pc.Kind == models.PromoKindSalonReferral:
			pc.Salon.UsedCount++
		}

		if err := ledgerRepo.WriteJSON(ctx, l.Store, key, pc); err != nil {
			return fmt.Errorf("promo: persist redemption of %q: %w", pc.Code, err)
		}
		l.Logger.Info("promo code redeemed",
			zap.String("code", pc.Code),
			zap.String("role", terms.Role),
			zap.Int("usedCount", pc.UsedCount),
		)
		return nil
	})
}

func (l *DefaultLedger) Create(ctx context.Context, code models.PromoCode) error {
	code.Code = ledgerRepo.NormalizeCode(code.Code)
	if code.Code == "" {
		return ErrInvalid
	}
	key := ledgerRepo.PromoKey(code.Code)
	return l.Store.WithKeyLock(key, func() error {
		if _, err := l.Store.Get(ctx, key); err == nil {
			return ErrCodeExists
		} else if !errors.Is(err, ledgerRepo.ErrNotFound) {
			return err
		}
		if code.UsedBy == nil {
			code.UsedBy = []string{}
		}
		code.CreatedAt = time.Now()
		return ledgerRepo.WriteJSON(ctx, l.Store, key, &code)
	})
}

func (l *DefaultLedger) Get(ctx context.Context, code string) (*models.PromoCode, error) {
	return l.load(ctx, code)
}

func (l *DefaultLedger) load(ctx context.Context, code string) (*models.PromoCode, error) {
	var pc models.PromoCode
	err := ledgerRepo.ReadJSON(ctx, l.Store, ledgerRepo.PromoKey(code), &pc)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil, ErrInvalid
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}
