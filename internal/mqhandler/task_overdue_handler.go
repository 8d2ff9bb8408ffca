package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"daytrack/internal/model"
	mqcontracts "daytrack/internal/mq"
	"daytrack/internal/repository"
	"daytrack/pkg/util"
)

// TaskOverdueHandler turns task.overdue events into notifications. The
// runner can re-sweep the same task before its status flips, so the deduper
// keeps the user from being told twice.
type TaskOverdueHandler struct {
	notificationRepo *repository.NotificationRepository
	deduper          *util.Deduper
	logger           *zap.Logger
}

func NewTaskOverdueHandler(notificationRepo *repository.NotificationRepository, deduper *util.Deduper, logger *zap.Logger) *TaskOverdueHandler {
	return &TaskOverdueHandler{
		notificationRepo: notificationRepo,
		deduper:          deduper,
		logger:           logger,
	}
}

func (h *TaskOverdueHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TaskOverduePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskOverduePayload", zap.Error(err))
		return err
	}

	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "task_overdue", strconv.FormatInt(p.TaskID, 10)) {
		return nil
	}

	h.logger.Info("Handling task.overdue event",
		zap.Int64("task_id", p.TaskID),
		zap.Int("user_id", p.UserID),
	)

	n := &model.Notification{
		UserID:  p.UserID,
		Type:    "task_overdue",
		Content: fmt.Sprintf("Task %q was due %s and is now overdue", p.Title, p.DueDate.Format("2006-01-02")),
	}
	if err := h.notificationRepo.Insert(ctx, n); err != nil {
		h.logger.Error("Failed to insert overdue notification", zap.Int64("task_id", p.TaskID), zap.Error(err))
		return err
	}

	return nil
}
