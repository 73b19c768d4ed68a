package registry

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mcdev12/outbreak/go/internal/models"
)

// PostgresRegistry stores each session as a JSONB document keyed by code and
// serializes per-code mutation with Postgres advisory locks, so the per-code
// critical section holds across any number of process instances sharing the
// database.
type PostgresRegistry struct {
	db *sql.DB
}

// NewPostgresRegistry wraps an open database handle.
func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

var _ Registry = (*PostgresRegistry)(nil)

// EnsureSchema creates the sessions table if it does not exist.
func (r *PostgresRegistry) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS game_sessions (
			code           TEXT PRIMARY KEY,
			payload        JSONB NOT NULL,
			round_deadline TIMESTAMPTZ,
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure game_sessions schema: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Create(ctx context.Context, build func(code string) (*models.Session, error)) (*models.Session, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		code := generateCode()

		session, err := build(code)
		if err != nil {
			return nil, err
		}
		payload, deadline, err := encodeSession(session)
		if err != nil {
			return nil, err
		}

		res, err := r.db.ExecContext(ctx, `
			INSERT INTO game_sessions (code, payload, round_deadline, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (code) DO NOTHING`,
			code, payload, deadline)
		if err != nil {
			return nil, fmt.Errorf("insert session: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			continue // code collision, retry
		}
		return session, nil
	}
	return nil, ErrCodeExhausted
}

func (r *PostgresRegistry) Get(ctx context.Context, code string) (*models.Session, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM game_sessions WHERE code = $1`, code).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}
	return decodeSession(payload)
}

func (r *PostgresRegistry) Delete(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM game_sessions WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRegistry) WithLock(ctx context.Context, code string, fn func(s *models.Session) error) (*models.Session, error) {
	// The advisory lock must be taken and released on the same connection.
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, code); err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	defer func() {
		// The request context may already be dead here. Advisory locks are
		// session-scoped and survive the connection's return to the pool, so
		// a lost unlock would wedge every future mutation for this code: run
		// it on a detached context and, if it still fails, discard the
		// connection so the lock dies with the session.
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock(hashtext($1))`, code); err != nil {
			_ = conn.Raw(func(driverConn any) error { return driver.ErrBadConn })
		}
	}()

	var payload []byte
	err = conn.QueryRowContext(ctx,
		`SELECT payload FROM game_sessions WHERE code = $1`, code).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}

	session, err := decodeSession(payload)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}

	updated, deadline, err := encodeSession(session)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, `
		UPDATE game_sessions
		SET payload = $2, round_deadline = $3, updated_at = now()
		WHERE code = $1`,
		code, updated, deadline); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

func (r *PostgresRegistry) NextDeadline(ctx context.Context) (*Deadline, error) {
	var d Deadline
	err := r.db.QueryRowContext(ctx, `
		SELECT code, round_deadline
		FROM game_sessions
		WHERE round_deadline IS NOT NULL
		ORDER BY round_deadline ASC
		LIMIT 1`).Scan(&d.Code, &d.At)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select next deadline: %w", err)
	}
	return &d, nil
}

func encodeSession(s *models.Session) (payload []byte, deadline sql.NullTime, err error) {
	payload, err = json.Marshal(s)
	if err != nil {
		return nil, sql.NullTime{}, fmt.Errorf("marshal session: %w", err)
	}
	if at, ok := s.RoundDeadline(); ok {
		deadline = sql.NullTime{Time: at, Valid: true}
	}
	return payload, deadline, nil
}

func decodeSession(payload []byte) (*models.Session, error) {
	var s models.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}
