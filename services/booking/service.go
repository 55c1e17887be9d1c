package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lashbook/models"
	"lashbook/services/client"
	"lashbook/services/giftcard"
	"lashbook/services/payment"
	"lashbook/services/promo"
	"lashbook/utils"

	"go.uber.org/zap"
)

// minDepositCharge is the smallest amount, in minor units, the payment
// gateway accepts for a checkout session.
const minDepositCharge = 50

// DefaultCheckoutService implements CheckoutService.
type DefaultCheckoutService struct {
	Reservations ReservationManager
	Pending      PendingStore
	Gateway      payment.Gateway
	Promos       promo.Ledger
	GiftCards    giftcard.Ledger
	Profiles     client.ProfileService
	Currency     string
	CallbackURL  string
	Logger       *zap.Logger
}

// StartCheckout reserves the slot, prices the booking, freezes the pending
// payload and opens the gateway transaction. The reservation is released on
// any later failure so an aborted checkout never leaves an orphan claim.
func (s *DefaultCheckoutService) StartCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	reference, err := utils.NewBookingReference()
	if err != nil {
		return nil, fmt.Errorf("checkout: generate reference: %w", err)
	}

	if err := s.Reservations.Reserve(ctx, req.Date, req.TimeSlot, reference); err != nil {
		return nil, err
	}
	// Everything below must not strand the reservation.
	abort := func(cause error) error {
		if rerr := s.Reservations.Release(ctx, reference); rerr != nil {
			s.Logger.Error("failed to release reservation after aborted checkout",
				zap.String("reference", reference), zap.Error(rerr))
		}
		return cause
	}

	payload, err := s.buildPayload(ctx, req)
	if err != nil {
		return nil, abort(err)
	}

	pending := models.PendingBooking{
		BookingReference: reference,
		Payload:          *payload,
		CreatedAt:        time.Now(),
	}
	if err := s.Pending.Create(ctx, pending); err != nil {
		return nil, abort(err)
	}

	session, err := s.Gateway.Initialize(ctx, models.PaymentInit{
		Email:            req.ClientEmail,
		Amount:           payload.Deposit,
		Currency:         s.Currency,
		BookingReference: reference,
		CallbackURL:      s.CallbackURL,
		Description:      req.Service + " deposit",
		Metadata:         map[string]string{"date": req.Date, "timeSlot": req.TimeSlot},
	})
	if err != nil {
		if _, cerr := s.Pending.Consume(ctx, reference); cerr != nil && !errors.Is(cerr, ErrNotFound) {
			s.Logger.Error("failed to discard pending booking after gateway error",
				zap.String("reference", reference), zap.Error(cerr))
		}
		return nil, abort(fmt.Errorf("checkout: initialize payment: %w", err))
	}

	s.Logger.Info("checkout started",
		zap.String("reference", reference),
		zap.String("date", req.Date),
		zap.String("timeSlot", req.TimeSlot),
		zap.Int64("deposit", payload.Deposit),
	)
	return &models.CheckoutResponse{
		BookingReference: reference,
		PaymentReference: session.Reference,
		AuthorizationURL: session.AuthorizationURL,
		FinalPrice:       payload.FinalPrice,
		Deposit:          payload.Deposit,
	}, nil
}

// buildPayload applies the promo discount and gift-card cover to the list
// price. Validation here is advisory; the ledgers re-check under their own
// locks at confirmation time.
func (s *DefaultCheckoutService) buildPayload(ctx context.Context, req models.CheckoutRequest) (*models.BookingPayload, error) {
	payload := models.BookingPayload{
		ClientName:       req.ClientName,
		ClientEmail:      req.ClientEmail,
		ClientPhone:      req.ClientPhone,
		Service:          req.Service,
		Date:             req.Date,
		TimeSlot:         req.TimeSlot,
		Notes:            req.Notes,
		ListPrice:        req.ListPrice,
		FinalPrice:       req.ListPrice,
		Deposit:          req.Deposit,
		ReferralType:     req.ReferralType,
		IsFirstTimeVisit: req.IsFirstTimeVisit,
	}

	firstTime := req.IsFirstTimeVisit
	if s.Profiles != nil {
		if ft, err := s.Profiles.IsFirstTimeClient(ctx, req.ClientEmail); err == nil {
			firstTime = ft
		}
		payload.IsFirstTimeVisit = firstTime
	}

	if req.PromoCode != "" {
		terms, err := s.Promos.Validate(ctx, req.PromoCode, req.ClientEmail, models.RedemptionContext{
			IsFirstTimeClient: firstTime,
			ReferralType:      req.ReferralType,
		})
		if err != nil {
			return nil, err
		}
		discount, err := promo.Apply(terms, payload.FinalPrice)
		if err != nil {
			return nil, err
		}
		payload.PromoCode = terms.Code
		payload.FinalPrice -= discount
	}

	if req.GiftCardCode != "" {
		card, err := s.GiftCards.FindByCode(ctx, req.GiftCardCode)
		if err != nil {
			return nil, err
		}
		if card.Status != models.GiftCardActive {
			if card.Status == models.GiftCardExpired {
				return nil, giftcard.ErrExpired
			}
			return nil, giftcard.ErrNotActive
		}
		cover := req.GiftCardAmount
		if cover <= 0 || cover > payload.Deposit {
			cover = payload.Deposit
		}
		if cover > card.Amount {
			cover = card.Amount
		}
		// The gateway refuses zero and sub-minimum charges, so the cover
		// always leaves a payable deposit; the card keeps the remainder.
		if payload.Deposit-cover < minDepositCharge {
			cover = payload.Deposit - minDepositCharge
		}
		if cover > 0 {
			payload.GiftCardCode = card.Code
			payload.GiftCardAmount = cover
			payload.Deposit -= cover
		}
	}

	if payload.FinalPrice < 0 {
		payload.FinalPrice = 0
	}
	if payload.Deposit < 0 {
		payload.Deposit = 0
	}
	return &payload, nil
}

func validateCheckout(req models.CheckoutRequest) error {
	if req.Date == "" || req.TimeSlot == "" {
		return errors.New("checkout: date and time slot are required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return fmt.Errorf("checkout: invalid date %q", req.Date)
	}
	if req.ListPrice <= 0 || req.Deposit <= 0 || req.Deposit > req.ListPrice {
		return errors.New("checkout: invalid price or deposit")
	}
	return nil
}
