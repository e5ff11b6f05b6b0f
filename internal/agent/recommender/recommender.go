package recommender

import (
	"sort"
	"strings"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/model"
)

// PerRound is how many specialties a single recommendation surfaces.
const PerRound = 2

// maxPasses bounds the exhaustion-and-reset cycle.
const maxPasses = 2

// Recommendation is one suggested specialty and when to see it.
type Recommendation struct {
	Specialty  string `json:"specialty"`
	Indication string `json:"indication"`
}

// Recommender maps candidate conditions to specialties. It holds only
// read-only reference data; the episode it tracks belongs to the caller.
type Recommender struct {
	catalog    *catalog.Catalog
	conditions []catalog.Entry
	generic    []string
}

func New(c *catalog.Catalog) *Recommender {
	if c == nil {
		c = catalog.Default()
	}
	return &Recommender{
		catalog:    c,
		conditions: catalog.ConditionSpecialties,
		generic:    catalog.GenericSpecialties,
	}
}

// Reset clears the specialties suggested during the current episode.
func (r *Recommender) Reset(ep *model.Episode) {
	ep.Reset()
}

// Recommend returns up to PerRound specialties for conditions, in priority
// order, and marks them as suggested in ep. With excludePrevious set,
// specialties already in ep are skipped. When nothing survives, the rest of
// the catalog is offered; when the catalog is exhausted too, the episode is
// reset once and the lookup repeated. An empty result means no specialty is
// left to suggest.
func (r *Recommender) Recommend(ep *model.Episode, conditions []string, excludePrevious bool) []Recommendation {
	ranked := r.rank(conditions)

	for pass := 0; pass < maxPasses; pass++ {
		picks := ranked
		if excludePrevious {
			picks = r.unseen(ep, ranked)
		}
		if len(picks) == 0 {
			picks = r.unseen(ep, r.catalog.Names())
		}
		if len(picks) == 0 {
			ep.Reset()
			ep.Mark(catalog.GeneralMedicine)
			continue
		}

		if len(picks) > PerRound {
			picks = picks[:PerRound]
		}
		out := make([]Recommendation, 0, len(picks))
		for _, name := range picks {
			ep.Mark(name)
			spec, _ := r.catalog.Get(name)
			out = append(out, Recommendation{Specialty: name, Indication: spec.Indication})
		}
		return out
	}
	return nil
}

type candidate struct {
	name     string
	priority int
}

// rank collects catalog specialties matching conditions, sorted by priority
// and deduplicated keeping the first occurrence.
func (r *Recommender) rank(conditions []string) []string {
	var found []candidate
	for _, cond := range conditions {
		c := strings.ToLower(strings.TrimSpace(cond))
		if c == "" {
			continue
		}
		for _, e := range r.conditions {
			if !strings.Contains(c, e.Key) && !strings.Contains(e.Key, c) {
				continue
			}
			for i, s := range e.Values {
				if r.catalog.Has(s) {
					found = append(found, candidate{s, i})
				}
			}
		}
	}

	if len(found) == 0 {
		for i, s := range r.generic {
			if r.catalog.Has(s) {
				found = append(found, candidate{s, i})
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].priority < found[j].priority })

	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, c := range found {
		if _, ok := seen[c.name]; ok {
			continue
		}
		seen[c.name] = struct{}{}
		out = append(out, c.name)
	}
	return out
}

func (r *Recommender) unseen(ep *model.Episode, names []string) []string {
	var out []string
	for _, n := range names {
		if !ep.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
