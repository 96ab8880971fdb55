// Package series collects parsed flights into a named review and derives
// the programme/target grouping used for observing-run summaries.
package series

import (
	"sort"

	"flightplan_parser/internal/plan"
)

// Review is a named collection of flights keyed by content hash. It is a
// plain single-owner container; callers needing shared access wrap it in
// their own synchronisation.
type Review struct {
	Name     string
	Reviewer string

	flights map[string]*plan.Flight
}

// Observation is one science leg's contribution to the grouping: the
// flight date it flew on and the leg's observing duration, both already
// formatted for display.
type Observation struct {
	Date     string
	Duration string
}

// Grouping maps programme identifier to target name to the observations
// made of that target under that programme.
type Grouping map[string]map[string][]Observation

func New(name, reviewer string) *Review {
	return &Review{
		Name:     name,
		Reviewer: reviewer,
		flights:  make(map[string]*plan.Flight),
	}
}

// Add inserts a flight into the review. Adding a flight whose content
// hash is already present is a no-op; Add reports whether the flight was
// actually inserted.
func (r *Review) Add(f *plan.Flight) bool {
	if _, dup := r.flights[f.Hash]; dup {
		return false
	}
	r.flights[f.Hash] = f
	return true
}

func (r *Review) Len() int { return len(r.flights) }

// Flights returns the review's flights ordered by takeoff timestamp,
// content hash breaking ties so the order is stable.
func (r *Review) Flights() []*plan.Flight {
	out := make([]*plan.Flight, 0, len(r.flights))
	for _, f := range r.flights {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Takeoff.Equal(out[j].Takeoff) {
			return out[i].Takeoff.Before(out[j].Takeoff)
		}
		return out[i].Hash < out[j].Hash
	})
	return out
}

// Grouping walks every science leg of every flight and builds the
// programme to target to observations map. Targets merge on exact name
// match, as stored. The result is computed fresh on every call.
func (r *Review) Grouping() Grouping {
	g := make(Grouping)
	for _, f := range r.Flights() {
		for _, leg := range f.ScienceLegs() {
			prog := leg.ObsPlanID
			if prog == "" {
				continue
			}
			target := ""
			if leg.Astro != nil {
				target = leg.Astro.Target
			}
			if g[prog] == nil {
				g[prog] = make(map[string][]Observation)
			}
			g[prog][target] = append(g[prog][target], Observation{
				Date:     f.Date(),
				Duration: plan.FormatHMS(leg.ObservingDuration),
			})
		}
	}
	return g
}

// Programmes returns the grouping's programme identifiers in sorted
// order, for deterministic iteration by renderers.
func (g Grouping) Programmes() []string {
	out := make([]string, 0, len(g))
	for p := range g {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Targets returns one programme's target names in sorted order.
func (g Grouping) Targets(programme string) []string {
	out := make([]string, 0, len(g[programme]))
	for t := range g[programme] {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
