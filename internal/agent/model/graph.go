package model

// TurnState stores per-invocation state for the turn graph.
// Concurrency model:
//   - Registered as Graph Local State via compose.WithGenLocalState.
//   - Read and written only inside Eino state handlers or compose.ProcessState.
//   - Turns of one session never overlap; the runner holds a per-session lock
//     for the whole invocation, so the Session pointer is never shared.
type TurnState struct {
	SessionID string
	Session   *Session
	Route     string // node chosen by the stage router, for logging

	// Accumulated LLM cost (USD) across model invocations for this turn
	TotalCostUSD float64
}

// QueryInput represents one user message addressed to a session.
type QueryInput struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Turn is what the stage handlers receive: the loaded session with the user
// entry already appended, plus the raw message.
type Turn struct {
	Session *Session
	Message string
}
