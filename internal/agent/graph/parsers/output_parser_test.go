package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymptomList(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain", "headache, fever", []string{"headache", "fever"}},
		{"echoed header", "List of symptoms (comma separated): headache, dry cough", []string{"headache", "dry cough"}},
		{"short and numeric fragments", "ok, 12, 42, sore throat", []string{"sore throat"}},
		{"leak markers", "fever, separated by commas, a list", []string{"fever"}},
		{"bullets", "- nausea, * dizziness.", []string{"nausea", "dizziness"}},
		{"empty", "   ", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSymptomList(tc.content)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseSymptomListCapsFragments(t *testing.T) {
	got, err := ParseSymptomList(strings.Repeat("fever, ", 200))
	require.NoError(t, err)
	assert.Len(t, got, maxFragments)
}

func TestDropLeakedFragments(t *testing.T) {
	got := DropLeakedFragments([]string{"headache", "Symptoms: fever", "comma separated", "symptom list", "cough"})
	assert.Equal(t, []string{"headache", "cough"}, got)
}

func TestConditionsUnusable(t *testing.T) {
	assert.True(t, ConditionsUnusable(nil))
	assert.True(t, ConditionsUnusable([]string{"Flu", "Possible symptoms"}))
	assert.False(t, ConditionsUnusable([]string{"Flu", "Common cold"}))
}

func TestParseConditionLines(t *testing.T) {
	content := "Possible medical conditions:\n1. Migraine\n2) Tension headache\n- migraine\nSymptom overview\nSinusitis\nFlu"
	got, err := ParseConditionLines(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"Migraine", "Tension headache", "Sinusitis"}, got)
}
