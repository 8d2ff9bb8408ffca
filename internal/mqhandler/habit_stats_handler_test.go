package mqhandler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/internal/service/habitstats"
	"daytrack/pkg/mq"
)

type fakeStats struct {
	refreshed   []int64
	invalidated []int64
	err         error
}

func (f *fakeStats) Refresh(ctx context.Context, habitID int64, trigger string) (*model.HabitStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.refreshed = append(f.refreshed, habitID)
	return &model.HabitStats{HabitID: habitID}, nil
}

func (f *fakeStats) Invalidate(ctx context.Context, habitID int64) error {
	f.invalidated = append(f.invalidated, habitID)
	return nil
}

type fakeDeduper struct {
	seen map[string]bool
}

func (f *fakeDeduper) AcquireOnce(ctx context.Context, handler, messageID string) bool {
	key := handler + ":" + messageID
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return false
	}
	f.seen[key] = true
	return true
}

func logUpdatedPayload(t *testing.T, habitID int64, date string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"habit_id": habitID,
		"user_id":  1,
		"log_date": date,
	})
	require.NoError(t, err)
	return raw
}

func TestHabitStatsHandlerDistinctEditsSameDateBothRecompute(t *testing.T) {
	stats := &fakeStats{}
	h := &HabitStatsHandler{stats: stats, deduper: &fakeDeduper{}, logger: zap.NewNop()}

	// Two edits of the same (habit, date) arrive as separate outbox events,
	// each with its own message ID. Both must recompute.
	payload := logUpdatedPayload(t, 42, "2024-01-08")
	require.NoError(t, h.Handle(mq.WithMessageID(context.Background(), "101"), payload))
	require.NoError(t, h.Handle(mq.WithMessageID(context.Background(), "102"), payload))

	assert.Equal(t, []int64{42, 42}, stats.refreshed)
}

func TestHabitStatsHandlerRedeliverySkipsRecompute(t *testing.T) {
	stats := &fakeStats{}
	h := &HabitStatsHandler{stats: stats, deduper: &fakeDeduper{}, logger: zap.NewNop()}

	payload := logUpdatedPayload(t, 42, "2024-01-08")
	require.NoError(t, h.Handle(mq.WithMessageID(context.Background(), "101"), payload))
	require.NoError(t, h.Handle(mq.WithMessageID(context.Background(), "101"), payload))

	assert.Equal(t, []int64{42}, stats.refreshed)
}

func TestHabitStatsHandlerNoMessageIDAlwaysRecomputes(t *testing.T) {
	stats := &fakeStats{}
	h := &HabitStatsHandler{stats: stats, deduper: &fakeDeduper{}, logger: zap.NewNop()}

	payload := logUpdatedPayload(t, 42, "2024-01-08")
	require.NoError(t, h.Handle(context.Background(), payload))
	require.NoError(t, h.Handle(context.Background(), payload))

	assert.Equal(t, []int64{42, 42}, stats.refreshed)
}

func TestHabitStatsHandlerMissingHabitDropsCache(t *testing.T) {
	stats := &fakeStats{err: habitstats.ErrHabitNotFound}
	h := &HabitStatsHandler{stats: stats, logger: zap.NewNop()}

	payload := logUpdatedPayload(t, 42, "2024-01-08")
	require.NoError(t, h.Handle(context.Background(), payload))

	assert.Equal(t, []int64{42}, stats.invalidated)
}

func TestHabitStatsHandlerRejectsMissingHabitID(t *testing.T) {
	h := &HabitStatsHandler{stats: &fakeStats{}, logger: zap.NewNop()}

	err := h.Handle(context.Background(), json.RawMessage(`{"user_id": 1}`))
	assert.Error(t, err)
}
