package repo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/medical-triage/server/internal/agent/model"
	errx "github.com/medical-triage/server/internal/core/error"
)

// MemorySessionRepository keeps sessions in process memory. Callers get
// copies, so nothing they mutate leaks back without a Save.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*model.Session)}
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, errx.ErrSessionNotFound
	}
	c := s.Clone()
	c.MarkPersisted()
	return c, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, sess *model.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session without id")
	}
	sess.UpdatedAt = time.Now().UTC()

	r.mu.Lock()
	r.sessions[sess.ID] = sess.Clone()
	r.mu.Unlock()

	sess.MarkPersisted()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
