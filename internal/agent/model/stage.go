package model

import (
	"fmt"
	"strings"
)

// Stage is the phase of the scripted dialogue that handles the next message.
type Stage int

const (
	StageGreeting Stage = iota
	StageSymptomCollection
	StageRecommendation
	StageGeneralQA
)

var stageNames = [...]string{
	StageGreeting:          "greeting",
	StageSymptomCollection: "symptom_collection",
	StageRecommendation:    "recommendation",
	StageGeneralQA:         "general_qa",
}

func (s Stage) String() string {
	if s.Valid() {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Valid reports whether s is one of the declared stages.
func (s Stage) Valid() bool {
	return s >= StageGreeting && s <= StageGeneralQA
}

// ParseStage resolves a stored stage name.
func ParseStage(v string) (Stage, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range stageNames {
		if name == v {
			return Stage(i), true
		}
	}
	return StageGeneralQA, false
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText decodes a stored stage. Unknown names decode to
// StageGeneralQA, the catch-all stage for corrupted sessions.
func (s *Stage) UnmarshalText(b []byte) error {
	st, _ := ParseStage(string(b))
	*s = st
	return nil
}
