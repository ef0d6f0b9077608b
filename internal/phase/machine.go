package phase

import "github.com/udisondev/zgscript/internal/event"

// Holder owns the current phase. The event scheduler is the usual holder,
// so the phase the machine sees is always the one dispatch filters on.
type Holder interface {
	Phase() event.Phase
	SetPhase(event.Phase)
}

// EnterFunc runs after the holder has been switched to the new phase.
type EnterFunc func(from, to event.Phase, s Stimulus)

// Machine drives transitions over a Graph. Each edge is taken at most once
// per visit of its source phase: once the holder has moved on, the edge is
// no longer considered, so repeated stimuli are no-ops.
type Machine struct {
	graph   *Graph
	holder  Holder
	onEnter EnterFunc
}

// NewMachine creates a machine reading and writing the phase through holder.
func NewMachine(graph *Graph, holder Holder, onEnter EnterFunc) *Machine {
	return &Machine{
		graph:   graph,
		holder:  holder,
		onEnter: onEnter,
	}
}

// Current returns the holder's phase.
func (m *Machine) Current() event.Phase {
	return m.holder.Phase()
}

// Fire evaluates the stimulus against edges out of the current phase.
// Returns the new phase and true if a transition happened.
func (m *Machine) Fire(s Stimulus) (event.Phase, bool) {
	from := m.holder.Phase()
	if from == event.NoPhase {
		return from, false
	}

	e, ok := m.graph.Next(from, s)
	if !ok {
		return from, false
	}

	m.holder.SetPhase(e.To)
	if m.onEnter != nil {
		m.onEnter(from, e.To, s)
	}
	return e.To, true
}
