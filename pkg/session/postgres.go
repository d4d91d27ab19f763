package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by the Postgres-backed stores.
// Both *pgxpool.Pool and pgx.Tx satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists sessions in the sessions table.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore creates a session store on top of a pgx pool or transaction.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

const lookupSessionQuery = `
SELECT id, token, user_id::text, ip, user_agent, created_at, expires_at
FROM sessions
WHERE token = $1`

// Lookup retrieves a session by token.
func (s *PostgresStore) Lookup(ctx context.Context, token string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(ctx, lookupSessionQuery, token).Scan(
		&sess.ID,
		&sess.Token,
		&sess.UserID,
		&sess.IP,
		&sess.UserAgent,
		&sess.CreatedAt,
		&sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

const createSessionQuery = `
INSERT INTO sessions (id, token, user_id, ip, user_agent, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create inserts a new session.
func (s *PostgresStore) Create(ctx context.Context, sess *Session) error {
	_, err := s.db.Exec(ctx, createSessionQuery,
		sess.ID,
		sess.Token,
		sess.UserID,
		sess.IP,
		sess.UserAgent,
		sess.CreatedAt,
		sess.ExpiresAt,
	)
	return err
}

// Delete removes the session with the given token.
func (s *PostgresStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteByUserID removes every session of a user.
func (s *PostgresStore) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired removes sessions that expired at or before the given time.
func (s *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var (
	_ Store         = (*PostgresStore)(nil)
	_ ExpiredPurger = (*PostgresStore)(nil)
)
