package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task", zap.Int("user_id", t.UserID), zap.String("title", t.Title))

	query := `
        INSERT INTO tasks (user_id, course_id, title, notes, due_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5, 'pending', NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.UserID,
		t.CourseID,
		t.Title,
		t.Notes,
		t.DueDate,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert task", zap.Int("user_id", t.UserID), zap.Error(err))
		return err
	}

	t.Status = model.TaskStatusPending
	r.logger.Info("Task inserted", zap.Int64("task_id", t.ID), zap.Int("user_id", t.UserID))
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	query := `
        SELECT id, user_id, course_id, title, notes, due_date, status, created_at, completed_at
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.CourseID, &t.Title, &t.Notes, &t.DueDate, &t.Status, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get task", zap.Int64("task_id", id), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// ListByUser returns tasks filtered by status when status is non-empty,
// otherwise everything. Pending tasks sort by due date with undated ones
// last.
func (r *TaskRepository) ListByUser(ctx context.Context, userID int, status string) ([]model.Task, error) {
	query := `
        SELECT id, user_id, course_id, title, notes, due_date, status, created_at, completed_at
        FROM tasks
        WHERE user_id = $1 AND ($2 = '' OR status = $2)
        ORDER BY due_date ASC NULLS LAST, created_at ASC
    `

	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.CourseID, &t.Title, &t.Notes, &t.DueDate, &t.Status, &t.CreatedAt, &t.CompletedAt); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// MarkCompletedTx flips the task to done inside the caller's transaction so
// the status change and its task.completed outbox event commit together.
func (r *TaskRepository) MarkCompletedTx(ctx context.Context, tx pgx.Tx, id int64, userID int) (*model.Task, error) {
	query := `
        UPDATE tasks
        SET status = 'done', completed_at = NOW()
        WHERE id = $1 AND user_id = $2
        RETURNING id, user_id, course_id, title, notes, due_date, status, created_at, completed_at
    `
	var t model.Task
	err := tx.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.CourseID, &t.Title, &t.Notes, &t.DueDate, &t.Status, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to complete task", zap.Int64("task_id", id), zap.Error(err))
		return nil, err
	}

	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64, userID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %d not found", id)
	}
	return nil
}

// ListExpiredPending finds pending tasks whose due date has passed, for the
// runner's overdue sweep.
func (r *TaskRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]model.Task, error) {
	query := `
        SELECT id, user_id, course_id, title, notes, due_date, status, created_at, completed_at
        FROM tasks
        WHERE status = 'pending' AND due_date IS NOT NULL AND due_date < $1
        ORDER BY due_date ASC
        LIMIT $2
    `

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		r.logger.Error("Failed to list expired tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.CourseID, &t.Title, &t.Notes, &t.DueDate, &t.Status, &t.CreatedAt, &t.CompletedAt); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) MarkExpired(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE tasks SET status = 'overdue' WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		r.logger.Error("Failed to mark task overdue", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	return nil
}
