package event

import (
	"math/rand/v2"
	"time"
)

// ID identifies a scheduled action. Unique per agent, not globally.
type ID uint32

// entry is a pending action timer. remaining may go negative once the
// action is due and is waiting for its phase to come back.
type entry struct {
	id        ID
	mask      PhaseMask
	remaining time.Duration
}

// Scheduler is a per-agent queue of independently timed actions, each
// tagged with the phases in which it may fire.
//
// Time only moves through Advance; due actions are pulled one by one with
// PopDue, so a caller can drain everything that became due in a single
// tick and stop early when the agent turns busy. Timers of inactive phases
// keep counting down but are skipped by PopDue.
//
// A Scheduler is owned by one agent and is not safe for concurrent use.
type Scheduler struct {
	entries []entry // insertion order
	phase   Phase
	rng     *rand.Rand
}

// NewScheduler creates an empty scheduler. rng is used to draw jittered
// delays; nil falls back to the global math/rand/v2 source.
func NewScheduler(rng *rand.Rand) *Scheduler {
	return &Scheduler{rng: rng}
}

// Advance moves time forward by dt for every pending timer.
// It never executes anything.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	for i := range s.entries {
		s.entries[i].remaining -= dt
	}
}

// Schedule arms action id with a delay drawn uniformly from [minDelay, maxDelay].
// Any pending timer for the same id is replaced, so an id fires at most once
// per arming. A fixed delay is minDelay == maxDelay.
func (s *Scheduler) Schedule(id ID, minDelay, maxDelay time.Duration, mask PhaseMask) {
	s.Cancel(id)
	s.entries = append(s.entries, entry{
		id:        id,
		mask:      mask,
		remaining: s.draw(minDelay, maxDelay),
	})
}

// ScheduleAfter arms action id with a fixed delay.
func (s *Scheduler) ScheduleAfter(id ID, delay time.Duration, mask PhaseMask) {
	s.Schedule(id, delay, delay, mask)
}

// PopDue removes and returns the oldest-inserted action that is due and
// allowed in the current phase. ok is false when nothing can fire.
func (s *Scheduler) PopDue() (id ID, ok bool) {
	for i, e := range s.entries {
		if e.remaining > 0 || !e.mask.Matches(s.phase) {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return e.id, true
	}
	return 0, false
}

// SetPhase switches the current phase. Pending timers are kept.
func (s *Scheduler) SetPhase(p Phase) {
	s.phase = p
}

// Phase returns the current phase.
func (s *Scheduler) Phase() Phase {
	return s.phase
}

// IsInPhase reports whether the scheduler is currently in phase p.
func (s *Scheduler) IsInPhase(p Phase) bool {
	return s.phase == p
}

// Cancel drops every pending timer for id.
func (s *Scheduler) Cancel(id ID) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	clear(s.entries[len(kept):])
	s.entries = kept
}

// Delay pushes every pending timer back by d.
func (s *Scheduler) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	for i := range s.entries {
		s.entries[i].remaining += d
	}
}

// Reset drops all timers and returns to NoPhase.
func (s *Scheduler) Reset() {
	s.entries = s.entries[:0]
	s.phase = NoPhase
}

// Remaining returns the time left until id is due, clamped at zero.
func (s *Scheduler) Remaining(id ID) (time.Duration, bool) {
	for _, e := range s.entries {
		if e.id == id {
			return max(e.remaining, 0), true
		}
	}
	return 0, false
}

// Pending reports whether id has a timer, regardless of phase.
func (s *Scheduler) Pending(id ID) bool {
	_, ok := s.Remaining(id)
	return ok
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	return len(s.entries)
}

func (s *Scheduler) draw(minDelay, maxDelay time.Duration) time.Duration {
	if maxDelay < minDelay {
		minDelay, maxDelay = maxDelay, minDelay
	}
	minDelay = max(minDelay, 0)
	maxDelay = max(maxDelay, 0)
	if minDelay == maxDelay {
		return minDelay
	}

	span := int64(maxDelay-minDelay) + 1
	if s.rng != nil {
		return minDelay + time.Duration(s.rng.Int64N(span))
	}
	return minDelay + time.Duration(rand.Int64N(span))
}
