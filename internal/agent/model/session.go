package model

import (
	"slices"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Episode tracks specialties already suggested during the current
// recommendation episode. Order is insertion order.
type Episode struct {
	Suggested []string `json:"suggested,omitempty"`
}

func (e *Episode) Has(specialty string) bool {
	return slices.Contains(e.Suggested, specialty)
}

func (e *Episode) Mark(specialty string) {
	if !e.Has(specialty) {
		e.Suggested = append(e.Suggested, specialty)
	}
}

func (e *Episode) Reset() {
	e.Suggested = nil
}

func (e *Episode) Len() int {
	return len(e.Suggested)
}

// Session is the per-chat conversation context. It is owned by a single
// turn at a time; the runner serializes turns of the same session.
type Session struct {
	ID               string    `json:"id"`
	Stage            Stage     `json:"stage"`
	AwaitingFollowUp bool      `json:"awaiting_follow_up"`
	LastConditions   []string  `json:"last_conditions,omitempty"`
	Episode          Episode   `json:"episode"`
	SymptomAttempts  int       `json:"symptom_attempts,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Transcript is append-only and stored separately from the state blob.
	Transcript []*schema.Message `json:"-"`
	persisted  int
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Stage:     StageGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) AddUser(content string) {
	s.Transcript = append(s.Transcript, schema.UserMessage(content))
}

func (s *Session) AddAssistant(content string) {
	s.Transcript = append(s.Transcript, schema.AssistantMessage(content, nil))
}

// LastAssistant returns the content of the most recent assistant entry.
func (s *Session) LastAssistant() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if m := s.Transcript[i]; m != nil && m.Role == schema.Assistant {
			return m.Content
		}
	}
	return ""
}

// Restore installs a transcript loaded from storage; all of it counts as persisted.
func (s *Session) Restore(transcript []*schema.Message) {
	s.Transcript = transcript
	s.persisted = len(transcript)
}

// Pending returns transcript entries not yet written to storage.
func (s *Session) Pending() []*schema.Message {
	if s.persisted >= len(s.Transcript) {
		return nil
	}
	return s.Transcript[s.persisted:]
}

func (s *Session) MarkPersisted() {
	s.persisted = len(s.Transcript)
}

// Clone returns a deep copy, transcript messages included.
func (s *Session) Clone() *Session {
	c := *s
	c.LastConditions = slices.Clone(s.LastConditions)
	c.Episode.Suggested = slices.Clone(s.Episode.Suggested)
	c.Transcript = make([]*schema.Message, len(s.Transcript))
	for i, m := range s.Transcript {
		if m == nil {
			continue
		}
		cp := *m
		c.Transcript[i] = &cp
	}
	return &c
}
