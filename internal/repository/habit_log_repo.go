package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/model"
)

type HabitLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitLogRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitLogRepository {
	return &HabitLogRepository{db: db, logger: logger}
}

// UpsertTx writes a log for (habit, date) inside the caller's transaction so
// the write and its outbox event commit together. The unique index on
// (habit_id, log_date) makes re-logging a date an overwrite, never a
// duplicate.
func (r *HabitLogRepository) UpsertTx(ctx context.Context, tx pgx.Tx, l *model.HabitLog) error {
	r.logger.Debug("Upserting habit log",
		zap.Int64("habit_id", l.HabitID),
		zap.String("log_date", l.LogDate),
	)

	query := `
        INSERT INTO habit_logs (habit_id, log_date, done, value, logged_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (habit_id, log_date)
        DO UPDATE SET done = EXCLUDED.done, value = EXCLUDED.value, logged_at = NOW()
        RETURNING id, logged_at
    `
	err := tx.QueryRow(ctx, query,
		l.HabitID,
		l.LogDate,
		l.Done,
		l.Value,
	).Scan(&l.ID, &l.LoggedAt)

	if err != nil {
		r.logger.Error("Failed to upsert habit log",
			zap.Int64("habit_id", l.HabitID),
			zap.String("log_date", l.LogDate),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// DeleteTx removes a log inside the caller's transaction. Absence of a row
// afterward means "not logged", which downstream evaluation distinguishes
// from "logged as not done".
func (r *HabitLogRepository) DeleteTx(ctx context.Context, tx pgx.Tx, habitID int64, logDate string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM habit_logs WHERE habit_id = $1 AND log_date = $2`, habitID, logDate)
	if err != nil {
		r.logger.Error("Failed to delete habit log",
			zap.Int64("habit_id", habitID),
			zap.String("log_date", logDate),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no log for habit %d on %s", habitID, logDate)
	}
	return nil
}

// ListByHabit loads the full history. Histories are small (one row per
// logged day), so there is no pagination.
func (r *HabitLogRepository) ListByHabit(ctx context.Context, habitID int64) ([]model.HabitLog, error) {
	query := `
        SELECT id, habit_id, log_date, done, value, logged_at
        FROM habit_logs
        WHERE habit_id = $1
        ORDER BY log_date ASC
    `

	rows, err := r.db.Query(ctx, query, habitID)
	if err != nil {
		r.logger.Error("Failed to list habit logs", zap.Int64("habit_id", habitID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	logs := []model.HabitLog{}
	for rows.Next() {
		var l model.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.LogDate, &l.Done, &l.Value, &l.LoggedAt); err != nil {
			r.logger.Error("Failed to scan habit log", zap.Error(err))
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (r *HabitLogRepository) GetByDate(ctx context.Context, habitID int64, logDate string) (*model.HabitLog, error) {
	query := `
        SELECT id, habit_id, log_date, done, value, logged_at
        FROM habit_logs
        WHERE habit_id = $1 AND log_date = $2
    `
	var l model.HabitLog
	err := r.db.QueryRow(ctx, query, habitID, logDate).Scan(&l.ID, &l.HabitID, &l.LogDate, &l.Done, &l.Value, &l.LoggedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get habit log",
			zap.Int64("habit_id", habitID),
			zap.String("log_date", logDate),
			zap.Error(err),
		)
		return nil, err
	}
	return &l, nil
}
