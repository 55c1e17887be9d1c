package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"lashbook/config"
	"lashbook/models"
	"lashbook/services/booking"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeBookingFinalize  = "booking:finalize"
	TypeReservationSweep = "reservation:sweep"
	TypePendingSweep     = "pending:sweep"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// Queue is the asynq-backed TaskQueue used by the confirmation service.
type Queue struct {
	client *asynq.Client
}

func NewQueue() *Queue {
	return &Queue{client: asynq.NewClient(redisOpts())}
}

func (q *Queue) EnqueueBookingFinalize(ctx context.Context, bookingID string) error {
	payload, err := json.Marshal(models.FinalizePayload{BookingID: bookingID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeBookingFinalize, payload)
	_, err = q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(time.Minute))
	return err
}

// InitWorker runs the async worker in background: booking finalization plus
// the periodic reservation/pending sweeps.
func InitWorker(
	finalizer *booking.Finalizer,
	reservations booking.ReservationManager,
	pending booking.PendingStore,
	logger *zap.Logger,
) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingFinalize, func(ctx context.Context, task *asynq.Task) error {
		var p models.FinalizePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid finalize payload", zap.Error(err))
			return err
		}
		return finalizer.Run(ctx, p.BookingID)
	})
	mux.HandleFunc(TypeReservationSweep, func(ctx context.Context, _ *asynq.Task) error {
		_, err := reservations.SweepExpired(ctx)
		return err
	})
	mux.HandleFunc(TypePendingSweep, func(ctx context.Context, _ *asynq.Task) error {
		_, err := pending.SweepExpired(ctx)
		return err
	})

	// Start async worker with retry logic.
	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go runScheduler(logger)
}

// runScheduler registers the periodic sweep tasks.
func runScheduler(logger *zap.Logger) {
	scheduler := asynq.NewScheduler(redisOpts(), nil)

	if _, err := scheduler.Register("@every 10m", asynq.NewTask(TypeReservationSweep, nil)); err != nil {
		logger.Error("failed to register reservation sweep", zap.Error(err))
	}
	if _, err := scheduler.Register("@every 30m", asynq.NewTask(TypePendingSweep, nil)); err != nil {
		logger.Error("failed to register pending sweep", zap.Error(err))
	}

	if err := scheduler.Run(); err != nil {
		logger.Error("task scheduler stopped", zap.Error(err))
	}
}
