package model

import (
	"context"
)

type SessionRepository interface {
	// Load returns the stored session, or errx.ErrSessionNotFound.
	Load(ctx context.Context, sessionID string) (*Session, error)

	// Save writes the session state and appends transcript entries added since
	// the last load or save.
	Save(ctx context.Context, session *Session) error

	// Delete removes the session state and transcript.
	Delete(ctx context.Context, sessionID string) error
}
