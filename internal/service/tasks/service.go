package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/model"
	mqcontracts "daytrack/internal/mq"
	"daytrack/internal/repository"
	"daytrack/pkg/outbox"
)

var ErrTaskNotFound = errors.New("task not found")

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type taskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	ListByUser(ctx context.Context, userID int, status string) ([]model.Task, error)
	MarkCompletedTx(ctx context.Context, tx pgx.Tx, id int64, userID int) (*model.Task, error)
	Delete(ctx context.Context, id int64, userID int) error
}

type Service struct {
	db         txBeginner
	taskRepo   taskStore
	outboxRepo *outbox.Repository
	logger     *zap.Logger
}

func NewService(db *pgxpool.Pool, taskRepo *repository.TaskRepository, logger *zap.Logger) *Service {
	return &Service{
		db:         db,
		taskRepo:   taskRepo,
		outboxRepo: outbox.NewRepository(db),
		logger:     logger,
	}
}

func (s *Service) CreateTask(ctx context.Context, t *model.Task) error {
	if t.DueDate != nil && t.DueDate.Before(time.Now().Add(-24*time.Hour)) {
		s.logger.Warn("Task created already past due",
			zap.Int("user_id", t.UserID),
			zap.Time("due_date", *t.DueDate),
		)
	}
	return s.taskRepo.Insert(ctx, t)
}

func (s *Service) ListTasks(ctx context.Context, userID int, status string) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID, status)
}

// CompleteTask flips the task to done and writes the task.completed outbox
// event in the same transaction; either both commit or neither does.
func (s *Service) CompleteTask(ctx context.Context, taskID int64, userID int) (*model.Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	t, err := s.taskRepo.MarkCompletedTx(ctx, tx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}

	payload := mqcontracts.TaskCompletedPayload{
		TaskID:      t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		CompletedAt: time.Now(),
	}
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "task", &t.ID, mqcontracts.RoutingKeyTaskCompleted, payload); err != nil {
		s.logger.Error("Failed to insert task.completed to outbox", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Task completed", zap.Int64("task_id", t.ID), zap.Int("user_id", t.UserID))
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, taskID int64, userID int) error {
	if err := s.taskRepo.Delete(ctx, taskID, userID); err != nil {
		return ErrTaskNotFound
	}
	return nil
}
