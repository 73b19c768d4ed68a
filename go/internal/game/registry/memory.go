package registry

import (
	"context"
	"sync"

	"github.com/mcdev12/outbreak/go/internal/models"
)

// createAttempts bounds code-collision retries before giving up.
const createAttempts = 100

// entry pairs a stored session with its per-code mutation lock.
type entry struct {
	mu      sync.Mutex
	session *models.Session
	deleted bool
}

// MemoryRegistry is the in-process Registry backend. The outer lock guards
// the code map only; each session carries its own lock so mutations on one
// code never block another.
type MemoryRegistry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]*entry)}
}

var _ Registry = (*MemoryRegistry)(nil)

func (r *MemoryRegistry) Create(ctx context.Context, build func(code string) (*models.Session, error)) (*models.Session, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		code := generateCode()

		r.mu.Lock()
		if _, taken := r.entries[code]; taken {
			r.mu.Unlock()
			continue
		}
		// Reserve the code before building so a concurrent Create cannot
		// race us to it.
		e := &entry{}
		e.mu.Lock()
		r.entries[code] = e
		r.mu.Unlock()

		session, err := build(code)
		if err != nil {
			e.deleted = true
			e.mu.Unlock()
			r.mu.Lock()
			delete(r.entries, code)
			r.mu.Unlock()
			return nil, err
		}

		e.session = session
		e.mu.Unlock()
		return session.Clone(), nil
	}
	return nil, ErrCodeExhausted
}

func (r *MemoryRegistry) Get(ctx context.Context, code string) (*models.Session, error) {
	e, err := r.lookup(code)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || e.session == nil {
		return nil, ErrNotFound
	}
	return e.session.Clone(), nil
}

func (r *MemoryRegistry) Delete(ctx context.Context, code string) error {
	e, err := r.lookup(code)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return ErrNotFound
	}
	e.deleted = true
	e.session = nil

	r.mu.Lock()
	delete(r.entries, code)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) WithLock(ctx context.Context, code string, fn func(s *models.Session) error) (*models.Session, error) {
	e, err := r.lookup(code)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || e.session == nil {
		return nil, ErrNotFound
	}

	// fn works on a clone; a failed guard leaves the stored aggregate
	// byte-for-byte unchanged.
	working := e.session.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	e.session = working
	return working.Clone(), nil
}

func (r *MemoryRegistry) NextDeadline(ctx context.Context) (*Deadline, error) {
	r.mu.RLock()
	codes := make([]string, 0, len(r.entries))
	for code := range r.entries {
		codes = append(codes, code)
	}
	r.mu.RUnlock()

	var next *Deadline
	for _, code := range codes {
		s, err := r.Get(ctx, code)
		if err != nil {
			continue // deleted since the scan
		}
		at, ok := s.RoundDeadline()
		if !ok {
			continue
		}
		if next == nil || at.Before(next.At) {
			next = &Deadline{Code: code, At: at}
		}
	}
	return next, nil
}

func (r *MemoryRegistry) lookup(code string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[code]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}
