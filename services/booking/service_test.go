package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ledgerRepo "lashbook/database/repository/ledger"
	"lashbook/models"
	"lashbook/services/giftcard"
	"lashbook/services/promo"

	"go.uber.org/zap"
)

type checkoutFixture struct {
	store     *ledgerRepo.MemoryStore
	gateway   *fakeGateway
	promos    promo.Ledger
	giftCards giftcard.Ledger
	svc       *DefaultCheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	logger := zap.NewNop()
	store := ledgerRepo.NewMemoryStore()
	gateway := newFakeGateway()
	promos := promo.NewDefaultLedger(store, logger)
	giftCards := giftcard.NewDefaultLedger(store, logger)

	return &checkoutFixture{
		store:     store,
		gateway:   gateway,
		promos:    promos,
		giftCards: giftCards,
		svc: &DefaultCheckoutService{
			Reservations: NewDefaultReservationManager(store, 30*time.Minute, logger),
			Pending:      NewDefaultPendingStore(store, time.Hour, logger),
			Gateway:      gateway,
			Promos:       promos,
			GiftCards:    giftCards,
			Currency:     "usd",
			CallbackURL:  "https://lashbook.test/booking/result",
			Logger:       logger,
		},
	}
}

func checkoutRequest() models.CheckoutRequest {
	return models.CheckoutRequest{
		ClientName:  "Ada",
		ClientEmail: "ada@example.com",
		Service:     "Volume full set",
		Date:        "2026-09-01",
		TimeSlot:    "10:00",
		ListPrice:   10000,
		Deposit:     5000,
	}
}

func TestStartCheckoutPricesPromoAndGiftCard(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	if err := f.promos.Create(ctx, models.PromoCode{
		Code:     "TWENTY",
		Kind:     models.PromoKindCard,
		Discount: models.Discount{Type: models.DiscountPercentage, Value: 20},
		Active:   true,
	}); err != nil {
		t.Fatalf("promo Create() error = %v", err)
	}
	if _, err := f.giftCards.Issue(ctx, models.GiftCard{Code: "GC1", Amount: 3000}); err != nil {
		t.Fatalf("gift card Issue() error = %v", err)
	}

	req := checkoutRequest()
	req.PromoCode = "twenty"
	req.GiftCardCode = "GC1"

	resp, err := f.svc.StartCheckout(ctx, req)
	if err != nil {
		t.Fatalf("StartCheckout() error = %v", err)
	}
	if resp.FinalPrice != 8000 {
		t.Errorf("FinalPrice = %v, want 8000 after 20%% promo", resp.FinalPrice)
	}
	// The card balance (3000) caps the cover, leaving 2000 due now.
	if resp.Deposit != 2000 {
		t.Errorf("Deposit = %v, want 2000 after gift card cover", resp.Deposit)
	}
	if !strings.HasPrefix(resp.BookingReference, "BK-") {
		t.Errorf("BookingReference = %v, want BK- prefix", resp.BookingReference)
	}
	if resp.AuthorizationURL == "" {
		t.Error("AuthorizationURL is empty")
	}

	// The frozen payload carries the resolved redemption amounts.
	var pending models.PendingBooking
	if err := ledgerRepo.ReadJSON(ctx, f.store, ledgerRepo.PendingKey(resp.BookingReference), &pending); err != nil {
		t.Fatalf("read pending booking: %v", err)
	}
	if pending.Payload.GiftCardAmount != 3000 {
		t.Errorf("payload GiftCardAmount = %v, want 3000", pending.Payload.GiftCardAmount)
	}
	if pending.Payload.PromoCode != "TWENTY" {
		t.Errorf("payload PromoCode = %v, want TWENTY", pending.Payload.PromoCode)
	}

	// Nothing was consumed yet: the promo and card are untouched until
	// confirmation settles the ledgers.
	card, _ := f.giftCards.FindByCode(ctx, "GC1")
	if card.Amount != 3000 {
		t.Errorf("gift card balance = %v, want 3000 before confirmation", card.Amount)
	}
	pc, _ := f.promos.Get(ctx, "TWENTY")
	if pc.UsedCount != 0 {
		t.Errorf("promo UsedCount = %v, want 0 before confirmation", pc.UsedCount)
	}
}

func TestStartCheckoutSlotConflict(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	if _, err := f.svc.StartCheckout(ctx, checkoutRequest()); err != nil {
		t.Fatalf("first StartCheckout() error = %v", err)
	}
	if _, err := f.svc.StartCheckout(ctx, checkoutRequest()); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second StartCheckout() error = %v, want %v", err, ErrSlotTaken)
	}
}

func TestStartCheckoutReleasesSlotOnPromoFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	req := checkoutRequest()
	req.PromoCode = "NOSUCH"
	if _, err := f.svc.StartCheckout(ctx, req); !errors.Is(err, promo.ErrInvalid) {
		t.Fatalf("StartCheckout() error = %v, want %v", err, promo.ErrInvalid)
	}

	// The failed attempt must not strand its reservation.
	if _, err := f.svc.StartCheckout(ctx, checkoutRequest()); err != nil {
		t.Fatalf("retry StartCheckout() error = %v", err)
	}
}

func TestStartCheckoutReleasesSlotOnGatewayFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	f.gateway.initErr = errors.New("gateway down")

	if _, err := f.svc.StartCheckout(ctx, checkoutRequest()); err == nil {
		t.Fatal("StartCheckout() error = nil, want gateway error")
	}

	// Both the reservation and the pending record were discarded.
	pendings, err := f.store.List(ctx, ledgerRepo.PendingPrefix())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pendings) != 0 {
		t.Errorf("pending records after aborted checkout = %d, want 0", len(pendings))
	}
	f.gateway.initErr = nil
	if _, err := f.svc.StartCheckout(ctx, checkoutRequest()); err != nil {
		t.Fatalf("retry StartCheckout() error = %v", err)
	}
}

func TestStartCheckoutValidation(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	tests := []struct {
		name   string
		mutate func(*models.CheckoutRequest)
	}{
		{"missing slot", func(r *models.CheckoutRequest) { r.TimeSlot = "" }},
		{"bad date", func(r *models.CheckoutRequest) { r.Date = "01/09/2026" }},
		{"zero price", func(r *models.CheckoutRequest) { r.ListPrice = 0 }},
		{"deposit above price", func(r *models.CheckoutRequest) { r.Deposit = 20000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := checkoutRequest()
			tt.mutate(&req)
			if _, err := f.svc.StartCheckout(ctx, req); err == nil {
				t.Error("StartCheckout() error = nil, want validation error")
			}
		})
	}
}

func TestStartCheckoutGiftCardLeavesPayableDeposit(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	if _, err := f.giftCards.Issue(ctx, models.GiftCard{Code: "GC-BIG", Amount: 20000}); err != nil {
		t.Fatalf("gift card Issue() error = %v", err)
	}

	req := checkoutRequest()
	req.GiftCardCode = "GC-BIG"

	resp, err := f.svc.StartCheckout(ctx, req)
	if err != nil {
		t.Fatalf("StartCheckout() error = %v", err)
	}
	// A card big enough to swallow the whole deposit still leaves the
	// gateway minimum to charge; the remainder stays on the card.
	if resp.Deposit != minDepositCharge {
		t.Errorf("Deposit = %v, want %v", resp.Deposit, minDepositCharge)
	}

	var pending models.PendingBooking
	if err := ledgerRepo.ReadJSON(ctx, f.store, ledgerRepo.PendingKey(resp.BookingReference), &pending); err != nil {
		t.Fatalf("read pending booking: %v", err)
	}
	wantCover := checkoutRequest().Deposit - minDepositCharge
	if pending.Payload.GiftCardAmount != wantCover {
		t.Errorf("payload GiftCardAmount = %v, want %v", pending.Payload.GiftCardAmount, wantCover)
	}
	if pending.Payload.GiftCardCode != "GCBIG" {
		t.Errorf("payload GiftCardCode = %v, want GCBIG", pending.Payload.GiftCardCode)
	}
}
