package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/pkg/outbox"
)

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for _, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = 1
		case *time.Time:
			*v = time.Unix(0, 0)
		}
	}
	return nil
}

// fakeTx satisfies pgx.Tx for the calls CompleteTask makes; anything else
// panics via the embedded nil interface.
type fakeTx struct {
	pgx.Tx
	rowErr     error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{err: t.rowErr}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return f.tx, nil
}

type fakeTaskStore struct {
	task   *model.Task
	gotTx  pgx.Tx
	markEr error
}

func (f *fakeTaskStore) Insert(ctx context.Context, t *model.Task) error { return nil }

func (f *fakeTaskStore) ListByUser(ctx context.Context, userID int, status string) ([]model.Task, error) {
	return nil, nil
}

func (f *fakeTaskStore) MarkCompletedTx(ctx context.Context, tx pgx.Tx, id int64, userID int) (*model.Task, error) {
	f.gotTx = tx
	return f.task, f.markEr
}

func (f *fakeTaskStore) Delete(ctx context.Context, id int64, userID int) error { return nil }

func completeTaskService(tx *fakeTx, store *fakeTaskStore) *Service {
	return &Service{
		db:         &fakeDB{tx: tx},
		taskRepo:   store,
		outboxRepo: outbox.NewRepository(nil),
		logger:     zap.NewNop(),
	}
}

func TestCompleteTaskCommitsFlipAndEventTogether(t *testing.T) {
	tx := &fakeTx{}
	store := &fakeTaskStore{task: &model.Task{ID: 9, UserID: 3, Title: "essay", Status: model.TaskStatusDone}}
	s := completeTaskService(tx, store)

	task, err := s.CompleteTask(context.Background(), 9, 3)
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.Equal(t, int64(9), task.ID)
	assert.Same(t, tx, store.gotTx)
	assert.True(t, tx.committed)
}

func TestCompleteTaskOutboxFailureSurfacesAndRollsBack(t *testing.T) {
	tx := &fakeTx{rowErr: errors.New("outbox insert failed")}
	store := &fakeTaskStore{task: &model.Task{ID: 9, UserID: 3, Title: "essay"}}
	s := completeTaskService(tx, store)

	_, err := s.CompleteTask(context.Background(), 9, 3)
	require.Error(t, err)

	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestCompleteTaskNotFound(t *testing.T) {
	tx := &fakeTx{}
	s := completeTaskService(tx, &fakeTaskStore{task: nil})

	_, err := s.CompleteTask(context.Background(), 9, 3)
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.False(t, tx.committed)
}
