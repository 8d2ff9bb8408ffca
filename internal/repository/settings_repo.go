package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/pkg/config"
)

type SettingsRepository struct {
	db       *pgxpool.Pool
	defaults config.TrackerConfig
	logger   *zap.Logger
}

func NewSettingsRepository(db *pgxpool.Pool, defaults config.TrackerConfig, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, defaults: defaults, logger: logger}
}

// Get returns the user's settings, falling back to defaults when the user
// has never saved any.
func (r *SettingsRepository) Get(ctx context.Context, userID int) (*model.UserSettings, error) {
	query := `
        SELECT user_id, rollover_hour, week_start_day, score_window_days
        FROM user_settings
        WHERE user_id = $1
    `
	var s model.UserSettings
	err := r.db.QueryRow(ctx, query, userID).Scan(&s.UserID, &s.RolloverHour, &s.WeekStartDay, &s.ScoreWindowDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.UserSettings{
				UserID:          userID,
				RolloverHour:    r.defaults.RolloverHour,
				WeekStartDay:    r.defaults.WeekStartDay,
				ScoreWindowDays: r.defaults.ScoreWindowDays,
			}, nil
		}
		r.logger.Error("Failed to get user settings", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *model.UserSettings) error {
	r.logger.Debug("Upserting user settings", zap.Int("user_id", s.UserID))

	query := `
        INSERT INTO user_settings (user_id, rollover_hour, week_start_day, score_window_days)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id)
        DO UPDATE SET rollover_hour = EXCLUDED.rollover_hour,
                      week_start_day = EXCLUDED.week_start_day,
                      score_window_days = EXCLUDED.score_window_days
    `
	_, err := r.db.Exec(ctx, query, s.UserID, s.RolloverHour, s.WeekStartDay, s.ScoreWindowDays)
	if err != nil {
		r.logger.Error("Failed to upsert user settings", zap.Int("user_id", s.UserID), zap.Error(err))
		return err
	}
	return nil
}
