package event

// Phase is a behavioral mode of an agent. Phases are numbered 1..MaxPhase;
// NoPhase means the scheduler has not been put into any phase yet.
type Phase uint8

const (
	NoPhase  Phase = 0
	MaxPhase Phase = 8
)

// Valid reports whether p is a real phase (not the sentinel, within range).
func (p Phase) Valid() bool {
	return p != NoPhase && p <= MaxPhase
}

// PhaseMask is a set of phases in which an action may fire.
// The zero mask matches every phase.
type PhaseMask uint8

// AllPhases matches any current phase.
const AllPhases PhaseMask = 0

// MaskOf builds a mask from phases. Invalid phases are ignored.
func MaskOf(phases ...Phase) PhaseMask {
	var m PhaseMask
	for _, p := range phases {
		if !p.Valid() {
			continue
		}
		m |= 1 << (p - 1)
	}
	return m
}

// Has reports whether the mask explicitly contains p.
// AllPhases contains nothing explicitly.
func (m PhaseMask) Has(p Phase) bool {
	if !p.Valid() {
		return false
	}
	return m&(1<<(p-1)) != 0
}

// Matches reports whether an action with this mask may fire while the
// scheduler is in phase current. While no phase is set everything matches.
func (m PhaseMask) Matches(current Phase) bool {
	return m == AllPhases || current == NoPhase || m.Has(current)
}
