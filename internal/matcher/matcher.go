// Package matcher implements the Matcher (C5): sorting a rule set into
// match-priority order once, then testing each incoming request against
// that order until a route claims it.
package matcher

import (
	"sort"

	"github.com/weavehq/weave/internal/resolved"
	"github.com/weavehq/weave/internal/rules"
	"github.com/weavehq/weave/internal/source"
)

// Matcher holds a rule set pre-sorted into match-priority order.
type Matcher struct {
	routes []rules.Route
}

// New sorts routes into match-priority order. The input slice is not
// mutated.
func New(routes []rules.Route) *Matcher {
	sorted := make([]rules.Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return source.Less(sorted[i].Source.SortKey(), sorted[j].Source.SortKey())
	})
	return &Matcher{routes: sorted}
}

// Routes returns the rule set in match-priority order.
func (m *Matcher) Routes() []rules.Route { return m.routes }

// Resolve walks the sorted rule set and returns the first route whose
// source claims (path, query), or ok=false if none do.
func (m *Matcher) Resolve(path, query string) (target resolved.Target, ok bool) {
	for _, r := range m.routes {
		matches, matched := r.Source.Match(path, query)
		if !matched {
			continue
		}
		return r.Dest.Resolve(matches), true
	}
	return resolved.Target{}, false
}
