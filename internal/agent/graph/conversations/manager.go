package conversations

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/medical-triage/server/internal/agent/model"
	errx "github.com/medical-triage/server/internal/core/error"
	logx "github.com/medical-triage/server/pkg/logger"
)

// lockEntry holds the per-session mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// SessionManager mediates access to the session repository and serializes
// turns of the same session. Locks are reference counted and dropped once no
// caller holds or waits for them.
type SessionManager struct {
	repo model.SessionRepository

	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewSessionManager(repo model.SessionRepository) *SessionManager {
	return &SessionManager{
		repo:  repo,
		locks: make(map[string]*lockEntry),
	}
}

func (m *SessionManager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionID]
	if !ok {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

func (m *SessionManager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock runs fn while holding the lock of sessionID.
func (m *SessionManager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Start creates and stores a fresh session with a random ID.
func (m *SessionManager) Start(ctx context.Context) (*model.Session, error) {
	sess := model.NewSession(uuid.NewString())
	if err := m.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("initialize session: %w", err)
	}
	logx.Debug().Str("session_id", sess.ID).Msg("Session started")
	return sess, nil
}

// LoadOrCreate returns the stored session, or a new one in the greeting stage
// when the ID is unknown or expired. The caller must hold the session lock.
func (m *SessionManager) LoadOrCreate(ctx context.Context, sessionID string) (*model.Session, error) {
	sess, err := m.repo.Load(ctx, sessionID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, errx.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}
	logx.Debug().Str("session_id", sessionID).Msg("Session not found; starting a new one")
	return model.NewSession(sessionID), nil
}

// Save persists the session. The caller must hold the session lock.
func (m *SessionManager) Save(ctx context.Context, sess *model.Session) error {
	return m.repo.Save(ctx, sess)
}

// End discards the session state and transcript.
func (m *SessionManager) End(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.repo.Delete(ctx, sessionID)
	})
}

// ActiveLocks reports how many sessions currently hold or await a lock.
func (m *SessionManager) ActiveLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
