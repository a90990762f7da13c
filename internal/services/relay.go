package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/internal/infrastructure/outbox"
	"github.com/catalogkit/products/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RelayConfig controls how frequently the outbox is drained.
type RelayConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxRelay re-publishes events whose bus delivery failed. Delivery is
// at-least-once: an event may reach the bus twice if a publish succeeded but
// the acknowledgment was lost before the item was removed.
type OutboxRelay struct {
	store     *outbox.Store
	monitor   ConnectionHealth
	publisher usecase.EventPublisher
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       RelayConfig
}

func NewOutboxRelay(
	store *outbox.Store,
	monitor ConnectionHealth,
	publisher usecase.EventPublisher,
	logger *zap.Logger,
	cfg RelayConfig,
) *OutboxRelay {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &OutboxRelay{
		store:     store,
		monitor:   monitor,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return r
}

// Start launches the cron scheduler.
func (r *OutboxRelay) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("outbox relay started")
}

// Stop gracefully stops the scheduler.
func (r *OutboxRelay) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("outbox relay stopped")
}

// Drain republishes pending items synchronously, oldest first.
func (r *OutboxRelay) Drain(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	items, err := r.store.GetBatch(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := r.republish(ctx, item); err != nil {
			r.logger.Error("failed to republish event",
				zap.String("item_id", item.ID),
				zap.String("event_kind", item.Kind),
				zap.Error(err))

			item.Retries++
			if item.Retries >= r.cfg.MaxRetries {
				r.logger.Warn("dropping outbox item (max retries reached)", zap.String("item_id", item.ID))
				_ = r.store.Remove(item)
				continue
			}

			if err := r.store.Remove(item); err != nil {
				r.logger.Warn("failed to remove outbox item", zap.Error(err))
			}
			if err := r.store.Requeue(item); err != nil {
				r.logger.Error("failed to requeue outbox item", zap.Error(err))
			}
			continue
		}

		if err := r.store.Remove(item); err != nil {
			r.logger.Warn("failed to purge published outbox item", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of pending items.
func (r *OutboxRelay) Size() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (r *OutboxRelay) republish(ctx context.Context, item outbox.Item) error {
	if ctx == nil {
		ctx = context.Background()
	}
	event, err := domain.DecodeEvent(domain.EventKind(item.Kind), item.Payload)
	if err != nil {
		return err
	}
	return r.publisher.Publish(ctx, event)
}
