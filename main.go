package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lashbook/config"
	"lashbook/cron"
	"lashbook/database"
	bookingRepoPkg "lashbook/database/repository/booking"
	ledgerRepoPkg "lashbook/database/repository/ledger"
	"lashbook/handlers"
	"lashbook/routes"
	"lashbook/services/booking"
	"lashbook/services/calendar"
	"lashbook/services/client"
	"lashbook/services/giftcard"
	"lashbook/services/notification"
	"lashbook/services/payment"
	"lashbook/services/promo"
	"lashbook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Repositories.
	store, err := ledgerRepoPkg.NewMongoStore(database.DB())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize ledger store: %v", err)
	}
	bookingRepo, err := bookingRepoPkg.NewMongoBookingRepo(database.DB())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize booking repository: %v", err)
	}

	// Services.
	gateway := payment.NewStripeGateway(config.AppConfig.StripeKey, config.AppConfig.StripeWebhookSecret, logger)
	promoLedger := promo.NewDefaultLedger(store, logger)
	giftCardLedger := giftcard.NewDefaultLedger(store, logger)
	profiles := client.NewDefaultProfileService(store, logger)

	reservations := booking.NewDefaultReservationManager(
		store,
		time.Duration(config.AppConfig.ReservationTTLMin)*time.Minute,
		logger,
	)
	pendingStore := booking.NewDefaultPendingStore(
		store,
		time.Duration(config.AppConfig.PendingTTLMin)*time.Minute,
		logger,
	)

	calendarSvc := calendar.NewGoogleCalendarService(
		config.AppConfig.GoogleCalendarID,
		config.AppConfig.BusinessTimezone,
		config.AppConfig.GoogleCredentials,
		config.AppConfig.AppointmentMinutes,
		logger,
	)
	notifier := notification.NewSMTPSender(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPass,
		config.AppConfig.SMTPFrom,
		logger,
	)

	finalizer := &booking.Finalizer{
		Bookings: bookingRepo,
		Calendar: calendarSvc,
		Profiles: profiles,
		Notifier: notifier,
		Logger:   logger,
	}

	checkoutService := &booking.DefaultCheckoutService{
		Reservations: reservations,
		Pending:      pendingStore,
		Gateway:      gateway,
		Promos:       promoLedger,
		GiftCards:    giftCardLedger,
		Profiles:     profiles,
		Currency:     config.AppConfig.Currency,
		CallbackURL:  config.AppConfig.CheckoutCallbackURL,
		Logger:       logger,
	}

	taskQueue := cron.NewQueue()
	confirmationService := &booking.DefaultConfirmationService{
		Gateway:      gateway,
		Pending:      pendingStore,
		Reservations: reservations,
		Bookings:     bookingRepo,
		GiftCards:    giftCardLedger,
		Promos:       promoLedger,
		Store:        store,
		Tasks:        taskQueue,
		Finalizer:    finalizer,
		CacheClient:  utils.GetCacheClient(),
		Logger:       logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking:  handlers.NewBookingHandler(checkoutService, confirmationService, logger),
		Webhook:  handlers.NewWebhookHandler(gateway, confirmationService, logger),
		Promo:    handlers.NewPromoHandler(promoLedger, logger),
		GiftCard: handlers.NewGiftCardHandler(giftCardLedger, logger),
		Admin:    handlers.NewAdminHandler(promoLedger, giftCardLedger, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker: finalization tasks plus reservation/pending sweeps.
	cron.InitWorker(finalizer, reservations, pendingStore, logger)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
