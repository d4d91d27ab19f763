package tasks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/taskmanager/pkg/db"
)

// PostgresRepository stores tasks in the tasks table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository on a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const taskColumns = `id, user_id::text, title, completed, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Task, error) {
		return scanTask(row)
	})
}

func (r *PostgresRepository) Get(ctx context.Context, userID string, id uuid.UUID) (Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
}

func (r *PostgresRepository) Create(ctx context.Context, t Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks (id, user_id, title, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Title, t.Completed, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

// Update locks the owned row with SELECT ... FOR UPDATE, so concurrent toggles serialize.
func (r *PostgresRepository) Update(ctx context.Context, userID string, id uuid.UUID, fn func(*Task) error) (Task, error) {
	var out Task
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		t, err := scanTask(tx.QueryRow(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`,
			id, userID,
		))
		if err != nil {
			return err
		}
		if err := fn(&t); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`UPDATE tasks SET title = $1, completed = $2, updated_at = $3 WHERE id = $4`,
			t.Title, t.Completed, t.UpdatedAt, t.ID,
		); err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
