// Package habitstats computes the derived stat bundle for a habit and keeps
// a redis copy of the latest result. Stats are never persisted as truth:
// any recompute rebuilds them from the habit and its full log history.
package habitstats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"daytrack/internal/engine"
	"daytrack/internal/model"
	"daytrack/internal/repository"
	"daytrack/pkg/metrics"
)

const cacheTTL = 24 * time.Hour

var ErrHabitNotFound = errors.New("habit not found")

type Service struct {
	habitRepo    *repository.HabitRepository
	logRepo      *repository.HabitLogRepository
	settingsRepo *repository.SettingsRepository
	rdb          *redis.Client
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	habitRepo *repository.HabitRepository,
	logRepo *repository.HabitLogRepository,
	settingsRepo *repository.SettingsRepository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		habitRepo:    habitRepo,
		logRepo:      logRepo,
		settingsRepo: settingsRepo,
		rdb:          rdb,
		logger:       logger,
		now:          time.Now,
	}
}

func cacheKey(habitID int64) string {
	return fmt.Sprintf("habit:stats:%d", habitID)
}

// Get serves stats cache-first. A miss falls through to a recompute, which
// also repopulates the cache.
func (s *Service) Get(ctx context.Context, habitID int64, userID int) (*model.HabitStats, error) {
	raw, err := s.rdb.Get(ctx, cacheKey(habitID)).Result()
	if err == nil {
		var stats model.HabitStats
		if err := json.Unmarshal([]byte(raw), &stats); err == nil {
			// Cached stats go stale at the day boundary even with no writes.
			settings, serr := s.settingsRepo.Get(ctx, userID)
			if serr == nil && stats.Today == engine.EffectiveDate(s.now(), settings.RolloverHour) {
				return &stats, nil
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("Redis stats cache read failed", zap.Int64("habit_id", habitID), zap.Error(err))
	}

	return s.Refresh(ctx, habitID, "api")
}

// Refresh recomputes the full bundle from storage and writes it back to the
// cache. trigger labels the recompute metric ("api", "event", ...).
func (s *Service) Refresh(ctx context.Context, habitID int64, trigger string) (*model.HabitStats, error) {
	start := time.Now()

	stats, err := s.compute(ctx, habitID)
	if err != nil {
		metrics.RecordStatsRecompute(trigger, "error", time.Since(start))
		return nil, err
	}

	body, err := json.Marshal(stats)
	if err != nil {
		metrics.RecordStatsRecompute(trigger, "error", time.Since(start))
		return nil, err
	}
	if err := s.rdb.Set(ctx, cacheKey(habitID), body, cacheTTL).Err(); err != nil {
		// Serve the computed result anyway; the cache is best-effort.
		s.logger.Warn("Redis stats cache write failed", zap.Int64("habit_id", habitID), zap.Error(err))
	}

	metrics.RecordStatsRecompute(trigger, "success", time.Since(start))
	s.logger.Debug("Habit stats recomputed",
		zap.Int64("habit_id", habitID),
		zap.String("trigger", trigger),
		zap.Int("score", stats.Score),
	)
	return stats, nil
}

// Invalidate drops the cached bundle, used when the habit itself is deleted.
func (s *Service) Invalidate(ctx context.Context, habitID int64) error {
	return s.rdb.Del(ctx, cacheKey(habitID)).Err()
}

func (s *Service) compute(ctx context.Context, habitID int64) (*model.HabitStats, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, ErrHabitNotFound
	}

	logs, err := s.logRepo.ListByHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx, habit.UserID)
	if err != nil {
		return nil, err
	}

	eh := habit.EngineHabit()
	elogs := model.EngineLogs(logs)
	today := engine.EffectiveDate(s.now(), settings.RolloverHour)

	dueToday, err := engine.IsDue(eh, today)
	if err != nil {
		return nil, err
	}

	streak, err := engine.Streak(eh, elogs, today)
	if err != nil {
		return nil, err
	}

	score, err := engine.Score(eh, elogs, today, settings.ScoreWindowDays)
	if err != nil {
		return nil, err
	}

	weekStart, err := engine.StartOfWeek(today, settings.WeekStartDay)
	if err != nil {
		return nil, err
	}
	week, err := engine.WeeklyProgress(eh, elogs, weekStart)
	if err != nil {
		return nil, err
	}

	completedToday := false
	for i := range logs {
		if logs[i].LogDate == today {
			l := logs[i].EngineLog()
			completedToday = engine.IsCompleted(eh, &l)
			break
		}
	}

	return &model.HabitStats{
		HabitID:        habitID,
		Today:          today,
		DueToday:       dueToday,
		CompletedToday: completedToday,
		Streak:         streak,
		Score:          score,
		Week:           week,
		ComputedAt:     s.now(),
	}, nil
}
