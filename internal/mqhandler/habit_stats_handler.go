package mqhandler

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"daytrack/internal/model"
	mqcontracts "daytrack/internal/mq"
	"daytrack/internal/service/habitstats"
	"daytrack/pkg/mq"
	"daytrack/pkg/util"
)

type statsRefresher interface {
	Refresh(ctx context.Context, habitID int64, trigger string) (*model.HabitStats, error)
	Invalidate(ctx context.Context, habitID int64) error
}

type eventDeduper interface {
	AcquireOnce(ctx context.Context, handler, messageID string) bool
}

// HabitStatsHandler rebuilds the cached stat bundle whenever a habit or one
// of its logs changes. Both habit.log.updated and habit.updated land here.
// Redelivery is deduped on the broker message ID (the outbox row ID), which
// is unique per change; keying on payload content would collapse two
// distinct edits of the same date into one recompute.
type HabitStatsHandler struct {
	stats   statsRefresher
	deduper eventDeduper
	logger  *zap.Logger
}

func NewHabitStatsHandler(stats *habitstats.Service, deduper *util.Deduper, logger *zap.Logger) *HabitStatsHandler {
	h := &HabitStatsHandler{
		stats:  stats,
		logger: logger,
	}
	if deduper != nil {
		h.deduper = deduper
	}
	return h
}

func (h *HabitStatsHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.HabitLogUpdatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal habit event payload", zap.Error(err))
		return err
	}
	if p.HabitID == 0 {
		h.logger.Error("Habit event payload missing habit_id")
		return errors.New("habit event payload missing habit_id")
	}

	// No message ID means no redelivery tracking; recompute unconditionally,
	// the operation is idempotent.
	if h.deduper != nil {
		if msgID := mq.MessageIDFromContext(ctx); msgID != "" {
			if !h.deduper.AcquireOnce(ctx, "habit_stats", msgID) {
				return nil
			}
		}
	}

	h.logger.Info("Recomputing habit stats",
		zap.Int64("habit_id", p.HabitID),
		zap.String("log_date", p.LogDate),
	)

	_, err := h.stats.Refresh(ctx, p.HabitID, "event")
	if err != nil {
		if errors.Is(err, habitstats.ErrHabitNotFound) {
			// Habit deleted after the event was queued. Drop the stale cache
			// and ack.
			if derr := h.stats.Invalidate(ctx, p.HabitID); derr != nil {
				h.logger.Warn("Failed to drop stats cache for deleted habit",
					zap.Int64("habit_id", p.HabitID),
					zap.Error(derr),
				)
			}
			return nil
		}
		h.logger.Error("Failed to recompute habit stats",
			zap.Int64("habit_id", p.HabitID),
			zap.Error(err),
		)
		return err
	}

	return nil
}
