package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFarewell(t *testing.T) {
	offer := "Remember that this is not a medical diagnosis. Would you like me to recommend specialists to consult?"

	cases := []struct {
		message       string
		lastAssistant string
		want          bool
	}{
		{"Thank you!", "", true},
		{"thanks", "", true},
		{"ok thanks", "", true},
		{"Goodbye", "", true},
		{"bye", "", true},
		{"see you later", "", true},
		{"That's all", "", true},
		{"I appreciate it", "", true},
		{"no thanks", "", false},
		{"no", offer, true},
		{"None.", offer, true},
		{"no", askSymptomsMessage, false},
		{"no", "Symptoms can include nausea.", false},
		{"no", "", false},
		{"I see your point", "", false},
		{"maybe", offer, false},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, IsFarewell(tc.message, tc.lastAssistant))
		})
	}
}
