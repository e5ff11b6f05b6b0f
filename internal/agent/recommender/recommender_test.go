package recommender

import (
	"testing"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Specialty
	}
	return out
}

func TestRecommendMigraineUsesPriorityOrder(t *testing.T) {
	r := New(catalog.Default())
	var ep model.Episode

	recs := r.Recommend(&ep, []string{"Migraine"}, false)
	assert.Equal(t, []string{"Neurology", "General Medicine"}, names(recs))
	for _, rec := range recs {
		assert.NotEmpty(t, rec.Indication)
	}
	assert.Equal(t, []string{"Neurology", "General Medicine"}, ep.Suggested)
}

func TestRecommendExcludePreviousNeverRepeats(t *testing.T) {
	r := New(catalog.Default())
	var ep model.Episode

	first := names(r.Recommend(&ep, []string{"Migraine"}, false))
	second := names(r.Recommend(&ep, []string{"Migraine"}, true))

	require.NotEmpty(t, second)
	assert.Equal(t, "Pain Medicine", second[0])
	for _, s := range second {
		assert.NotContains(t, first, s)
	}

	// mapping exhausted: the rest of the catalog is offered, still without repeats
	third := names(r.Recommend(&ep, []string{"Migraine"}, true))
	require.NotEmpty(t, third)
	for _, s := range third {
		assert.NotContains(t, first, s)
		assert.NotContains(t, second, s)
	}
}

func TestRecommendIdempotentAfterReset(t *testing.T) {
	r := New(catalog.Default())
	var ep model.Episode
	conds := []string{"Flu", "Common cold", "COVID-19"}

	r.Reset(&ep)
	a := names(r.Recommend(&ep, conds, false))
	b := names(r.Recommend(&ep, conds, false))
	assert.Equal(t, a, b)
	assert.LessOrEqual(t, len(a), PerRound)
}

func TestRecommendFallsBackToGenericList(t *testing.T) {
	r := New(catalog.Default())
	var ep model.Episode

	recs := r.Recommend(&ep, []string{"Something unheard of"}, false)
	assert.Equal(t, []string{"General Medicine", "Internal Medicine"}, names(recs))
}

func TestRecommendSkipsSpecialtiesMissingFromCatalog(t *testing.T) {
	c := catalog.New([]catalog.Specialty{
		{Name: "Neurology", Indication: "headaches"},
		{Name: "Dermatology", Indication: "skin"},
	})
	r := New(c)
	var ep model.Episode

	assert.Equal(t, []string{"Neurology"}, names(r.Recommend(&ep, []string{"migraine"}, false)))
}

func TestRecommendResetsOnceWhenCatalogExhausted(t *testing.T) {
	c := catalog.New([]catalog.Specialty{
		{Name: "Neurology"},
		{Name: "General Medicine"},
	})
	r := New(c)
	var ep model.Episode

	assert.Equal(t, []string{"Neurology", "General Medicine"}, names(r.Recommend(&ep, []string{"Migraine"}, false)))

	// everything suggested: reset, General Medicine re-marked, Neurology again
	again := names(r.Recommend(&ep, []string{"Migraine"}, true))
	assert.Equal(t, []string{"Neurology"}, again)
	assert.ElementsMatch(t, []string{"General Medicine", "Neurology"}, ep.Suggested)
}

func TestRecommendEmptyCatalogTerminates(t *testing.T) {
	r := New(catalog.New(nil))
	var ep model.Episode

	assert.Empty(t, r.Recommend(&ep, []string{"Migraine"}, true))
	assert.Empty(t, r.Recommend(&ep, nil, false))
}
