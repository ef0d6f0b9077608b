package ai

import (
	"fmt"
	"time"

	"github.com/udisondev/zgscript/internal/event"
)

// Delay is an inclusive range a timer is drawn from.
type Delay struct {
	Min time.Duration
	Max time.Duration
}

// Fixed returns a degenerate range.
func Fixed(d time.Duration) Delay {
	return Delay{Min: d, Max: d}
}

// Between returns the range [lo, hi].
func Between(lo, hi time.Duration) Delay {
	return Delay{Min: lo, Max: hi}
}

// Contains reports whether d lies within the range.
func (d Delay) Contains(v time.Duration) bool {
	return v >= d.Min && v <= d.Max
}

// Action is one named, independently timed behavior of a boss.
// After Run the control loop re-arms the action with Repeat in its own
// phase mask, so an action is never lost, whether Run found a target or not.
type Action struct {
	ID     event.ID
	Name   string
	Phases event.PhaseMask
	First  Delay // delay when the phase starts
	Repeat Delay // delay after each firing
	Run    func(h Host)
}

func (a *Action) validate() error {
	if a.Run == nil {
		return fmt.Errorf("action %d (%s): nil Run", a.ID, a.Name)
	}
	if a.First.Min < 0 || a.Repeat.Min < 0 {
		return fmt.Errorf("action %d (%s): negative delay", a.ID, a.Name)
	}
	if a.First.Max < a.First.Min || a.Repeat.Max < a.Repeat.Min {
		return fmt.Errorf("action %d (%s): max delay below min", a.ID, a.Name)
	}
	// a zero repeat would make the action due again within the same drain
	if a.Repeat.Min <= 0 {
		return fmt.Errorf("action %d (%s): repeat delay must be positive, got %v", a.ID, a.Name, a.Repeat.Min)
	}
	return nil
}
