package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/engine"
	"daytrack/internal/model"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{db: db, logger: logger}
}

func (r *HabitRepository) Insert(ctx context.Context, h *model.Habit) error {
	r.logger.Debug("Inserting habit",
		zap.Int("user_id", h.UserID),
		zap.String("title", h.Title),
		zap.String("recurrence_kind", string(h.Recurrence.Kind)),
	)

	recJSON, err := json.Marshal(h.Recurrence)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence: %w", err)
	}

	query := `
        INSERT INTO habits (user_id, title, emoji, color, value_type, target, recurrence, created_on, archived)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
        RETURNING id, created_at, updated_at
    `
	err = r.db.QueryRow(ctx, query,
		h.UserID,
		h.Title,
		h.Emoji,
		h.Color,
		h.ValueType,
		h.Target,
		recJSON,
		h.CreatedOn,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return err
	}

	r.logger.Info("Habit inserted successfully",
		zap.Int64("habit_id", h.ID),
		zap.Int("user_id", h.UserID),
	)
	return nil
}

func (r *HabitRepository) GetByID(ctx context.Context, id int64) (*model.Habit, error) {
	query := `
        SELECT id, user_id, title, emoji, color, value_type, target, recurrence, created_on, archived, created_at, updated_at
        FROM habits
        WHERE id = $1
    `
	h, err := scanHabit(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get habit", zap.Int64("habit_id", id), zap.Error(err))
		return nil, err
	}
	return h, nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID int, includeArchived bool) ([]model.Habit, error) {
	r.logger.Debug("Listing habits for user",
		zap.Int("user_id", userID),
		zap.Bool("include_archived", includeArchived),
	)

	query := `
        SELECT id, user_id, title, emoji, color, value_type, target, recurrence, created_on, archived, created_at, updated_at
        FROM habits
        WHERE user_id = $1 AND (archived = FALSE OR $2)
        ORDER BY created_at DESC
    `

	rows, err := r.db.Query(ctx, query, userID, includeArchived)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			r.logger.Error("Failed to scan habit", zap.Error(err))
			return nil, err
		}
		habits = append(habits, *h)
	}

	r.logger.Debug("Listed habits",
		zap.Int("user_id", userID),
		zap.Int("count", len(habits)),
	)
	return habits, rows.Err()
}

// Update replaces the mutable attributes. The creation date and identity
// never change; recurrence changes only affect evaluation from now on since
// stats are always re-derived in full.
func (r *HabitRepository) Update(ctx context.Context, h *model.Habit) error {
	recJSON, err := json.Marshal(h.Recurrence)
	if err != nil {
		return fmt.Errorf("failed to marshal recurrence: %w", err)
	}

	query := `
        UPDATE habits
        SET title = $1, emoji = $2, color = $3, value_type = $4, target = $5, recurrence = $6, updated_at = NOW()
        WHERE id = $7
    `
	tag, err := r.db.Exec(ctx, query,
		h.Title,
		h.Emoji,
		h.Color,
		h.ValueType,
		h.Target,
		recJSON,
		h.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update habit", zap.Int64("habit_id", h.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("habit not found: %d", h.ID)
	}

	r.logger.Info("Habit updated", zap.Int64("habit_id", h.ID))
	return nil
}

func (r *HabitRepository) SetArchived(ctx context.Context, id int64, archived bool) error {
	query := `
        UPDATE habits
        SET archived = $1, updated_at = NOW()
        WHERE id = $2
    `
	tag, err := r.db.Exec(ctx, query, archived, id)
	if err != nil {
		r.logger.Error("Failed to set habit archived", zap.Int64("habit_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("habit not found: %d", id)
	}

	r.logger.Info("Habit archived flag set",
		zap.Int64("habit_id", id),
		zap.Bool("archived", archived),
	)
	return nil
}

// Delete removes the habit and, via FK cascade, its logs.
func (r *HabitRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete habit", zap.Int64("habit_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("habit not found: %d", id)
	}

	r.logger.Info("Habit deleted", zap.Int64("habit_id", id))
	return nil
}

func scanHabit(row pgx.Row) (*model.Habit, error) {
	var h model.Habit
	var recJSON []byte
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Title,
		&h.Emoji,
		&h.Color,
		&h.ValueType,
		&h.Target,
		&recJSON,
		&h.CreatedOn,
		&h.Archived,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var rec engine.Recurrence
	if err := json.Unmarshal(recJSON, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recurrence for habit %d: %w", h.ID, err)
	}
	h.Recurrence = rec
	return &h, nil
}
