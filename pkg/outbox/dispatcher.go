package outbox

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"daytrack/pkg/metrics"
	"daytrack/pkg/mq"
)

const (
	defaultBatchSize  = 50
	defaultMaxRetries = 5
)

// Dispatcher drains pending outbox events into the message broker. One
// dispatcher per deployment is enough; events are idempotent on the consumer
// side, so a crash between publish and MarkAsSent only means a re-delivery.
type Dispatcher struct {
	repo      *Repository
	publisher *mq.Publisher
	logger    *zap.Logger

	interval   time.Duration
	batchSize  int
	maxRetries int
}

func NewDispatcher(repo *Repository, publisher *mq.Publisher, logger *zap.Logger, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		repo:       repo,
		publisher:  publisher,
		logger:     logger,
		interval:   interval,
		batchSize:  defaultBatchSize,
		maxRetries: defaultMaxRetries,
	}
}

// Start polls for pending events until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("Outbox dispatcher started", zap.Duration("interval", d.interval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DispatchPending(ctx); err != nil {
				d.logger.Error("Outbox dispatch round failed", zap.Error(err))
			}
		}
	}
}

// DispatchPending publishes one batch of pending events.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	events, err := d.repo.GetPendingEvents(ctx, d.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	sent := 0
	for _, e := range events {
		// The outbox row ID doubles as the broker message ID, giving
		// consumers a stable key for dedup and retry accounting.
		err := d.publisher.PublishWithID(e.RoutingKey, strconv.FormatInt(e.ID, 10), e.Payload)
		if err != nil {
			d.logger.Error("Failed to publish outbox event",
				zap.Int64("event_id", e.ID),
				zap.String("routing_key", e.RoutingKey),
				zap.Error(err),
			)
			metrics.OutboxDispatchCount.WithLabelValues("failed").Inc()
			if err := d.repo.MarkAsFailed(ctx, e.ID, d.maxRetries); err != nil {
				d.logger.Error("Failed to mark outbox event as failed",
					zap.Int64("event_id", e.ID),
					zap.Error(err),
				)
			}
			continue
		}

		if err := d.repo.MarkAsSent(ctx, e.ID); err != nil {
			d.logger.Error("Failed to mark outbox event as sent",
				zap.Int64("event_id", e.ID),
				zap.Error(err),
			)
			continue
		}
		metrics.OutboxDispatchCount.WithLabelValues("sent").Inc()
		sent++
	}

	d.logger.Debug("Outbox batch dispatched",
		zap.Int("pending", len(events)),
		zap.Int("sent", sent),
	)
	return nil
}
