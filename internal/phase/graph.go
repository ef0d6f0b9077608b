// Package phase implements encounter phase transitions as a directed
// acyclic graph of phases with guarded edges.
package phase

import (
	"errors"
	"fmt"

	"github.com/udisondev/zgscript/internal/event"
)

var (
	// ErrInvalidPhase is returned for edges touching NoPhase or an out-of-range phase.
	ErrInvalidPhase = errors.New("invalid phase")
	// ErrCycle is returned when edges would allow returning to an earlier phase.
	ErrCycle = errors.New("phase graph has a cycle")
)

// StimulusKind tells which external event triggered a transition check.
type StimulusKind int32

const (
	StimulusDamage StimulusKind = iota + 1
	StimulusTick
)

// String returns human-readable stimulus kind
func (k StimulusKind) String() string {
	switch k {
	case StimulusDamage:
		return "DAMAGE"
	case StimulusTick:
		return "TICK"
	default:
		return "UNKNOWN"
	}
}

// Stimulus carries the external signal a guard is evaluated against.
type Stimulus struct {
	Kind           StimulusKind
	Attacker       uint32
	Amount         int32
	HealthFraction float64
}

// Guard decides whether an edge may be taken.
type Guard func(Stimulus) bool

// HealthBelow passes on damage stimuli whose health fraction is strictly below f.
func HealthBelow(f float64) Guard {
	return func(s Stimulus) bool {
		return s.Kind == StimulusDamage && s.HealthFraction < f
	}
}

// Edge is a transition From → To, taken when Guard passes.
// A nil Guard always passes.
type Edge struct {
	From  event.Phase
	To    event.Phase
	Guard Guard
}

// Graph is an immutable DAG of phase transitions.
type Graph struct {
	out map[event.Phase][]Edge
}

// NewGraph validates edges and builds a graph. Edges out of the same phase
// are tried in the given order.
func NewGraph(edges ...Edge) (*Graph, error) {
	g := &Graph{out: make(map[event.Phase][]Edge, len(edges))}
	for _, e := range edges {
		if !e.From.Valid() || !e.To.Valid() {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, ErrInvalidPhase)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, ErrCycle)
		}
		g.out[e.From] = append(g.out[e.From], e)
	}

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// Next returns the first edge out of from whose guard passes.
func (g *Graph) Next(from event.Phase, s Stimulus) (Edge, bool) {
	for _, e := range g.out[from] {
		if e.Guard == nil || e.Guard(s) {
			return e, true
		}
	}
	return Edge{}, false
}

// Terminal reports whether no edge leaves p.
func (g *Graph) Terminal(p event.Phase) bool {
	return len(g.out[p]) == 0
}

func (g *Graph) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[event.Phase]int, len(g.out))

	var visit func(p event.Phase) error
	visit = func(p event.Phase) error {
		switch state[p] {
		case visiting:
			return fmt.Errorf("phase %d reachable from itself: %w", p, ErrCycle)
		case done:
			return nil
		}
		state[p] = visiting
		for _, e := range g.out[p] {
			if err := visit(e.To); err != nil {
				return err
			}
		}
		state[p] = done
		return nil
	}

	for p := range g.out {
		if err := visit(p); err != nil {
			return err
		}
	}
	return nil
}
