// Package habits owns the habit write path. Every mutation that can change
// a habit's stats commits an outbox event in the same transaction, so the
// stats worker always hears about it exactly when the write is durable.
package habits

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"daytrack/internal/engine"
	"daytrack/internal/model"
	mqcontracts "daytrack/internal/mq"
	"daytrack/internal/repository"
	"daytrack/pkg/logger"
	"daytrack/pkg/outbox"
)

var (
	ErrHabitNotFound    = errors.New("habit not found")
	ErrLogNotFound      = errors.New("log not found")
	ErrInvalidValueType = errors.New("value_type must be boolean or numeric")
)

// validateDefinition covers the fields shared by create and update. Anything
// an update can change gets the same checks as a create.
func validateDefinition(h *model.Habit) error {
	if err := h.Recurrence.Validate(); err != nil {
		return err
	}
	if h.ValueType != string(engine.ValueBoolean) && h.ValueType != string(engine.ValueNumeric) {
		return ErrInvalidValueType
	}
	return nil
}

type Service struct {
	db           *pgxpool.Pool
	habitRepo    *repository.HabitRepository
	logRepo      *repository.HabitLogRepository
	settingsRepo *repository.SettingsRepository
	outboxRepo   *outbox.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	db *pgxpool.Pool,
	habitRepo *repository.HabitRepository,
	logRepo *repository.HabitLogRepository,
	settingsRepo *repository.SettingsRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:           db,
		habitRepo:    habitRepo,
		logRepo:      logRepo,
		settingsRepo: settingsRepo,
		outboxRepo:   outbox.NewRepository(db),
		logger:       logger,
		now:          time.Now,
	}
}

// CreateHabit validates the schedule and inserts the habit. CreatedOn
// defaults to the user's current effective date so a habit created late at
// night is not due "yesterday".
func (s *Service) CreateHabit(ctx context.Context, h *model.Habit) error {
	if err := validateDefinition(h); err != nil {
		return err
	}

	if h.CreatedOn == "" {
		settings, err := s.settingsRepo.Get(ctx, h.UserID)
		if err != nil {
			return err
		}
		h.CreatedOn = engine.EffectiveDate(s.now(), settings.RolloverHour)
	} else if _, err := engine.ParseDate(h.CreatedOn); err != nil {
		return err
	}

	return s.habitRepo.Insert(ctx, h)
}

func (s *Service) GetHabit(ctx context.Context, habitID int64, userID int) (*model.Habit, error) {
	h, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if h == nil || h.UserID != userID {
		return nil, ErrHabitNotFound
	}
	return h, nil
}

func (s *Service) ListHabits(ctx context.Context, userID int, includeArchived bool) ([]model.Habit, error) {
	return s.habitRepo.ListByUser(ctx, userID, includeArchived)
}

// UpdateHabit saves attribute changes and queues a habit.updated event so
// cached stats are rebuilt against the new schedule.
func (s *Service) UpdateHabit(ctx context.Context, userID int, h *model.Habit) error {
	if err := validateDefinition(h); err != nil {
		return err
	}

	existing, err := s.GetHabit(ctx, h.ID, userID)
	if err != nil {
		return err
	}
	h.UserID = existing.UserID
	h.CreatedOn = existing.CreatedOn

	if err := s.habitRepo.Update(ctx, h); err != nil {
		return err
	}

	return s.queueHabitUpdated(ctx, h.ID, userID)
}

func (s *Service) ArchiveHabit(ctx context.Context, habitID int64, userID int, archived bool) error {
	if _, err := s.GetHabit(ctx, habitID, userID); err != nil {
		return err
	}
	if err := s.habitRepo.SetArchived(ctx, habitID, archived); err != nil {
		return err
	}
	return s.queueHabitUpdated(ctx, habitID, userID)
}

func (s *Service) DeleteHabit(ctx context.Context, habitID int64, userID int) error {
	if _, err := s.GetHabit(ctx, habitID, userID); err != nil {
		return err
	}
	if err := s.habitRepo.Delete(ctx, habitID); err != nil {
		return err
	}
	// The recompute handler drops the stats cache when the habit is gone.
	return s.queueHabitUpdated(ctx, habitID, userID)
}

// LogHabit writes the log for (habit, date) and the habit.log.updated event
// in one transaction. An empty date means "now", shifted by the user's
// rollover hour.
func (s *Service) LogHabit(ctx context.Context, userID int, habitID int64, date string, done bool, value float64) (*model.HabitLog, error) {
	habit, err := s.GetHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	if date == "" {
		settings, err := s.settingsRepo.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		date = engine.EffectiveDate(s.now(), settings.RolloverHour)
	} else if _, err := engine.ParseDate(date); err != nil {
		return nil, err
	}

	log := &model.HabitLog{
		HabitID: habit.ID,
		LogDate: date,
		Done:    done,
		Value:   value,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.logRepo.UpsertTx(ctx, tx, log); err != nil {
		return nil, err
	}

	payload := mqcontracts.HabitLogUpdatedPayload{
		HabitID: habit.ID,
		UserID:  userID,
		LogDate: date,
	}
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "habit", &habit.ID, mqcontracts.RoutingKeyHabitLogUpdated, payload); err != nil {
		s.logger.Error("Failed to insert habit.log.updated to outbox", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return nil, err
	}

	logger.WithTrace(ctx, s.logger).Info("Habit logged",
		zap.Int64("habit_id", habit.ID),
		zap.String("log_date", date),
		zap.Bool("done", done),
	)
	return log, nil
}

// DeleteLog removes the log for (habit, date), returning the day to the
// "not logged" state, and queues a recompute.
func (s *Service) DeleteLog(ctx context.Context, userID int, habitID int64, date string) error {
	habit, err := s.GetHabit(ctx, habitID, userID)
	if err != nil {
		return err
	}
	if _, err := engine.ParseDate(date); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.logRepo.DeleteTx(ctx, tx, habit.ID, date); err != nil {
		return ErrLogNotFound
	}

	payload := mqcontracts.HabitLogUpdatedPayload{
		HabitID: habit.ID,
		UserID:  userID,
		LogDate: date,
		Deleted: true,
	}
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "habit", &habit.ID, mqcontracts.RoutingKeyHabitLogUpdated, payload); err != nil {
		s.logger.Error("Failed to insert habit.log.updated to outbox", zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}

	return nil
}

// GetLog reads the single entry for (habit, date). Absence is ErrLogNotFound,
// which is distinct from a log saved with done=false.
func (s *Service) GetLog(ctx context.Context, userID int, habitID int64, date string) (*model.HabitLog, error) {
	habit, err := s.GetHabit(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := engine.ParseDate(date); err != nil {
		return nil, err
	}

	log, err := s.logRepo.GetByDate(ctx, habit.ID, date)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, ErrLogNotFound
	}
	return log, nil
}

func (s *Service) ListLogs(ctx context.Context, userID int, habitID int64) ([]model.HabitLog, error) {
	if _, err := s.GetHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByHabit(ctx, habitID)
}

func (s *Service) queueHabitUpdated(ctx context.Context, habitID int64, userID int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	payload := mqcontracts.HabitUpdatedPayload{HabitID: habitID, UserID: userID}
	if err := outbox.InsertEventInTx(ctx, tx, s.outboxRepo, "habit", &habitID, mqcontracts.RoutingKeyHabitUpdated, payload); err != nil {
		s.logger.Error("Failed to insert habit.updated to outbox", zap.Error(err))
		return err
	}

	return tx.Commit(ctx)
}
