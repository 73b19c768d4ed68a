package registry

import (
	"context"
	"errors"
	"time"

	"github.com/mcdev12/outbreak/go/internal/models"
)

// ErrNotFound is returned for operations against an unknown session code.
var ErrNotFound = errors.New("session not found")

// ErrCodeExhausted is returned when code generation keeps colliding, which
// in practice means the active-session space is saturated.
var ErrCodeExhausted = errors.New("could not generate a unique session code")

// Deadline is the next round expiry across all active sessions.
type Deadline struct {
	Code string
	At   time.Time
}

// Registry is the keyed store of session aggregates. Implementations must
// serialize all mutation per code: WithLock is the sole mutation entry point
// and behaves as a per-code critical section, never blocking unrelated codes.
type Registry interface {
	// Create generates a unique code, builds the session via build, and
	// stores it.
	Create(ctx context.Context, build func(code string) (*models.Session, error)) (*models.Session, error)

	// Get returns a copy of the session for code, or ErrNotFound.
	Get(ctx context.Context, code string) (*models.Session, error)

	// Delete removes the session for code, or returns ErrNotFound.
	Delete(ctx context.Context, code string) error

	// WithLock runs fn against a working copy of the session under the
	// per-code lock. If fn succeeds the copy is persisted and returned;
	// if fn fails the stored aggregate is left untouched.
	WithLock(ctx context.Context, code string, fn func(s *models.Session) error) (*models.Session, error)

	// NextDeadline returns the soonest round expiry among PLAYING
	// sessions, or nil when none is pending.
	NextDeadline(ctx context.Context) (*Deadline, error)
}
