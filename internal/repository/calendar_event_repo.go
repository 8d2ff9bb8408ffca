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

type CalendarEventRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCalendarEventRepository(db *pgxpool.Pool, logger *zap.Logger) *CalendarEventRepository {
	return &CalendarEventRepository{db: db, logger: logger}
}

func (r *CalendarEventRepository) Insert(ctx context.Context, e *model.CalendarEvent) error {
	r.logger.Debug("Inserting calendar event", zap.Int("user_id", e.UserID), zap.String("title", e.Title))

	query := `
        INSERT INTO calendar_events (user_id, title, location, starts_at, ends_at, all_day, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		e.UserID,
		e.Title,
		e.Location,
		e.StartsAt,
		e.EndsAt,
		e.AllDay,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to insert calendar event", zap.Int("user_id", e.UserID), zap.Error(err))
		return err
	}

	return nil
}

func (r *CalendarEventRepository) GetByID(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	query := `
        SELECT id, user_id, title, location, starts_at, ends_at, all_day, created_at, updated_at
        FROM calendar_events
        WHERE id = $1
    `
	var e model.CalendarEvent
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UserID, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.AllDay, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get calendar event", zap.Int64("event_id", id), zap.Error(err))
		return nil, err
	}
	return &e, nil
}

// ListByRange returns events overlapping [from, to).
func (r *CalendarEventRepository) ListByRange(ctx context.Context, userID int, from, to time.Time) ([]model.CalendarEvent, error) {
	query := `
        SELECT id, user_id, title, location, starts_at, ends_at, all_day, created_at, updated_at
        FROM calendar_events
        WHERE user_id = $1 AND starts_at < $3 AND ends_at > $2
        ORDER BY starts_at ASC
    `

	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		r.logger.Error("Failed to list calendar events", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	events := []model.CalendarEvent{}
	for rows.Next() {
		var e model.CalendarEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.AllDay, &e.CreatedAt, &e.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan calendar event", zap.Error(err))
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func (r *CalendarEventRepository) Update(ctx context.Context, e *model.CalendarEvent) error {
	query := `
        UPDATE calendar_events
        SET title = $1, location = $2, starts_at = $3, ends_at = $4, all_day = $5, updated_at = NOW()
        WHERE id = $6 AND user_id = $7
    `
	tag, err := r.db.Exec(ctx, query, e.Title, e.Location, e.StartsAt, e.EndsAt, e.AllDay, e.ID, e.UserID)
	if err != nil {
		r.logger.Error("Failed to update calendar event", zap.Int64("event_id", e.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("calendar event %d not found", e.ID)
	}
	return nil
}

func (r *CalendarEventRepository) Delete(ctx context.Context, id int64, userID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete calendar event", zap.Int64("event_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("calendar event %d not found", id)
	}
	return nil
}
