package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	mqcontracts "daytrack/internal/mq"
	"daytrack/internal/repository"
	"daytrack/pkg/metrics"
	"daytrack/pkg/mq"
)

const sweepBatchSize = 200

// Sweeper periodically flips pending tasks past their due date into the
// overdue state and announces each one on the events exchange.
type Sweeper struct {
	taskRepo  *repository.TaskRepository
	publisher *mq.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewSweeper(taskRepo *repository.TaskRepository, publisher *mq.Publisher, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SweepOverdue marks one batch of expired tasks and publishes task.overdue
// for each. A failed publish skips the event but keeps the status flip; the
// consumer side dedupes, so the next sweep resending is harmless.
func (s *Sweeper) SweepOverdue(ctx context.Context) (int, error) {
	expired, err := s.taskRepo.ListExpiredPending(ctx, s.now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		s.logger.Debug("No overdue tasks found")
		return 0, nil
	}

	swept := 0
	for _, t := range expired {
		if err := s.taskRepo.MarkExpired(ctx, t.ID); err != nil {
			continue
		}
		swept++
		metrics.TaskOverdueCount.Inc()

		payload := mqcontracts.TaskOverduePayload{
			TaskID:  t.ID,
			UserID:  t.UserID,
			Title:   t.Title,
			DueDate: *t.DueDate,
		}
		if err := s.publisher.Publish(mqcontracts.RoutingKeyTaskOverdue, payload); err != nil {
			s.logger.Error("Failed to publish task.overdue event",
				zap.Int64("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("Published task.overdue event", zap.Int64("task_id", t.ID))
	}

	s.logger.Info("Overdue sweep completed", zap.Int("overdue_count", swept))
	return swept, nil
}
