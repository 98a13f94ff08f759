package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/storelane/store-service/internal/infrastructure/outbox"
)

// EventBroker abstracts the broker client used to deliver outbox records.
type EventBroker interface {
	Send(ctx context.Context, topic, key string, payload []byte) error
}

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// DispatcherConfig controls how frequently the outbox is drained.
type DispatcherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxDispatcher drains committed events from the outbox to the broker.
// Records are sent in key order; a failed send stops the pass so events of the
// same store are never reordered. A record that keeps failing is dropped after
// MaxRetries with a warning: delivery is at-least-once on the happy path,
// best-effort under sustained broker failure.
type OutboxDispatcher struct {
	store   *outbox.Store
	broker  EventBroker
	monitor ConnectionHealth
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     DispatcherConfig
}

func NewOutboxDispatcher(
	store *outbox.Store,
	broker EventBroker,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg DispatcherConfig,
) *OutboxDispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &OutboxDispatcher{
		store:   store,
		broker:  broker,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = d.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := d.Drain(ctx); err != nil {
			d.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return d
}

// Start launches the cron scheduler.
func (d *OutboxDispatcher) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
	d.logger.Info("outbox dispatcher started")
}

// Stop gracefully stops the scheduler.
func (d *OutboxDispatcher) Stop(ctx context.Context) {
	if d == nil || d.cron == nil {
		return
	}
	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	d.logger.Info("outbox dispatcher stopped")
}

// Drain delivers pending records synchronously.
func (d *OutboxDispatcher) Drain(ctx context.Context) error {
	if d == nil || d.store == nil {
		return nil
	}
	if d.monitor != nil && !d.monitor.IsOnline() {
		d.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	records, err := d.store.Batch(d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := d.broker.Send(ctx, record.Topic, record.PartitionKey, record.Payload); err != nil {
			d.logger.Error("failed to deliver outbox record",
				zap.String("record_id", record.ID),
				zap.String("event_id", record.EventID),
				zap.String("store_id", record.PartitionKey),
				zap.Error(err))

			record.Retries++
			if record.Retries >= d.cfg.MaxRetries {
				d.logger.Warn("dropping outbox record (max retries reached)",
					zap.String("record_id", record.ID),
					zap.String("event_id", record.EventID))
				_ = d.store.Remove(record)
				continue
			}

			if err := d.store.Update(record); err != nil {
				d.logger.Error("failed to update outbox record", zap.Error(err))
			}
			// stop the pass so later events of the same store don't overtake
			return nil
		}

		if err := d.store.Remove(record); err != nil {
			d.logger.Warn("failed to purge delivered outbox record", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of pending outbox records.
func (d *OutboxDispatcher) Size() int {
	if d == nil || d.store == nil {
		return 0
	}
	size, err := d.store.Size()
	if err != nil {
		return 0
	}
	return size
}
