// Package registry provides a leg parser registry for dispatching flight
// plan leg sections to the appropriate per-kind parser.
//
// The leg classifier of the plan format is realised as a priority-ordered
// decision table: each parser contributes one row (its Match condition) and
// the first matching row wins. New dialects extend the table by registering
// a parser, not by branching in existing code.
package registry

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"flightplan_parser/internal/plan"
	"flightplan_parser/internal/sections"
)

// Parser is implemented by each leg-kind parser.
type Parser interface {
	// Name returns the parser's unique identifier.
	Name() string

	// Kind returns the leg kind this parser produces.
	Kind() plan.LegKind

	// Priority determines evaluation order; lower is checked first.
	// Cheaper checks should have lower priority.
	Priority() int

	// Match performs a fast check of the classifier condition.
	// Returns true if the section MIGHT be this parser's kind.
	Match(sec *sections.Section) bool

	// Parse extracts the leg, attaching soft findings to Leg.Warnings.
	// Returns nil if the section turns out not to be parseable.
	Parse(sec *sections.Section, cfg plan.Config) *plan.Leg
}

// Registry holds all registered leg parsers organised for dispatch.
type Registry struct {
	mu sync.RWMutex

	// parsers is the decision table, sorted by Priority (ascending).
	parsers []Parser

	// catchAll runs only when no table row matched.
	catchAll []Parser

	sorted bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a parser to the default registry.
// Called during init() in each leg parser package.
func Register(p Parser) {
	defaultRegistry.Register(p)
}

// RegisterCatchAll adds a catch-all parser to the default registry.
func RegisterCatchAll(p Parser) {
	defaultRegistry.RegisterCatchAll(p)
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, p)
	r.sorted = false
}

// RegisterCatchAll adds a catch-all parser.
func (r *Registry) RegisterCatchAll(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catchAll = append(r.catchAll, p)
	r.sorted = false
}

// Sort orders the decision table by priority. Call before dispatching.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sorted {
		return
	}
	sort.SliceStable(r.parsers, func(i, j int) bool {
		return r.parsers[i].Priority() < r.parsers[j].Priority()
	})
	sort.SliceStable(r.catchAll, func(i, j int) bool {
		return r.catchAll[i].Priority() < r.catchAll[j].Priority()
	})
	r.sorted = true
}

// Dispatch classifies a leg section and parses it with the first matching
// parser. Classification is deterministic and depends only on the section.
// When no parser matches, the catch-all produces an "other" leg carrying an
// unknown-dialect warning.
func (r *Registry) Dispatch(sec *sections.Section, cfg plan.Config) *plan.Leg {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.parsers {
		if !p.Match(sec) {
			continue
		}
		if leg := p.Parse(sec, cfg); leg != nil {
			return leg
		}
	}

	for _, p := range r.catchAll {
		if leg := p.Parse(sec, cfg); leg != nil {
			return leg
		}
	}

	return nil
}

// ParserCount returns the number of registered parsers including catch-alls.
func (r *Registry) ParserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.parsers) + len(r.catchAll)
}

// legHeaderRe matches the first line of a leg metadata section,
// e.g. `Leg 7 (FABIO) Start: 03:05:49 ...`.
var legHeaderRe = regexp.MustCompile(`^Leg\s+(\d+)\s*\(([^)]*)\)`)

// IsLegSection reports whether a section's first line is a leg header.
func IsLegSection(sec *sections.Section) bool {
	return legHeaderRe.MatchString(sec.First())
}

// IsTrajectorySection reports whether a section is a leg's trajectory
// table. The table's header line begins with the UTC column label.
func IsTrajectorySection(sec *sections.Section) bool {
	f := strings.Fields(sec.First())
	return len(f) > 0 && f[0] == "UTC"
}

// LegHeader extracts the ordinal and description from a leg header line.
// Ordinal is the first token after "Leg"; the description is the
// parenthesised text that follows it.
func LegHeader(line string) (ordinal int, desc string, ok bool) {
	m := legHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, strings.TrimSpace(m[2]), true
}
