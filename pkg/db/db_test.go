package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/pkg/db"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	ok := db.Healthcheck(pingerFunc(func(context.Context) error { return nil }))
	require.NoError(t, ok(t.Context()))

	down := errors.New("connection refused")
	failing := db.Healthcheck(pingerFunc(func(context.Context) error { return down }))
	err := failing(t.Context())
	require.ErrorIs(t, err, db.ErrUnhealthy)
	require.ErrorIs(t, err, down)
}

type fakeTx struct {
	pgx.Tx
	commitErr   error
	rollbackErr error
	commits     int
	rollbacks   int
	rollbackCtx context.Context
}

func (tx *fakeTx) Commit(context.Context) error { tx.commits++; return tx.commitErr }

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.rollbacks++
	tx.rollbackCtx = ctx
	return tx.rollbackErr
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	boom := errors.New("insert task: duplicate key")
	lost := errors.New("connection lost")

	tests := []struct {
		name          string
		tx            *fakeTx
		fn            func(pgx.Tx) error
		wantErr       []error
		wantCommits   int
		wantRollbacks int
	}{
		{
			name:        "commits on success",
			tx:          &fakeTx{},
			fn:          func(pgx.Tx) error { return nil },
			wantCommits: 1,
		},
		{
			name:          "rolls back on error",
			tx:            &fakeTx{},
			fn:            func(pgx.Tx) error { return boom },
			wantErr:       []error{boom},
			wantRollbacks: 1,
		},
		{
			name:          "rollback failure is reported with the cause",
			tx:            &fakeTx{rollbackErr: lost},
			fn:            func(pgx.Tx) error { return boom },
			wantErr:       []error{boom, lost},
			wantRollbacks: 1,
		},
		{
			name:          "closed transaction is not a rollback failure",
			tx:            &fakeTx{rollbackErr: pgx.ErrTxClosed},
			fn:            func(pgx.Tx) error { return boom },
			wantErr:       []error{boom},
			wantRollbacks: 1,
		},
		{
			name:          "commit failure",
			tx:            &fakeTx{commitErr: lost, rollbackErr: pgx.ErrTxClosed},
			fn:            func(pgx.Tx) error { return nil },
			wantErr:       []error{db.ErrCommitTx, lost},
			wantCommits:   1,
			wantRollbacks: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := db.WithTx(t.Context(), &fakeBeginner{tx: tt.tx}, tt.fn)
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
			}
			for _, want := range tt.wantErr {
				require.ErrorIs(t, err, want)
			}
			assert.NotErrorIs(t, err, pgx.ErrTxClosed)
			assert.Equal(t, tt.wantCommits, tt.tx.commits)
			assert.Equal(t, tt.wantRollbacks, tt.tx.rollbacks)
		})
	}
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	t.Parallel()

	tx := &fakeTx{}
	assert.PanicsWithValue(t, "boom", func() {
		_ = db.WithTx(t.Context(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { panic("boom") })
	})
	assert.Equal(t, 1, tx.rollbacks)
	assert.Zero(t, tx.commits)
}

func TestWithTx_RollbackSurvivesCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	tx := &fakeTx{}
	err := db.WithTx(ctx, &fakeBeginner{tx: tx}, func(pgx.Tx) error {
		cancel()
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, tx.rollbackCtx)
	assert.NoError(t, tx.rollbackCtx.Err())
}

func TestWithTx_BeginError(t *testing.T) {
	t.Parallel()

	down := errors.New("too many connections")
	called := false
	err := db.WithTx(t.Context(), &fakeBeginner{err: down}, func(pgx.Tx) error { called = true; return nil })
	require.ErrorIs(t, err, db.ErrBeginTx)
	require.ErrorIs(t, err, down)
	assert.False(t, called)
}

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := db.Connect(t.Context(), db.Config{ConnectionString: "://not a url"})
	require.ErrorIs(t, err, db.ErrParseConfig)
}
