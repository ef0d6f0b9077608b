package event

import (
	"math/rand/v2"
	"testing"
	"time"
)

const (
	testPhaseOne Phase = 1
	testPhaseTwo Phase = 2
)

func newTestScheduler() *Scheduler {
	return NewScheduler(rand.New(rand.NewPCG(1, 2)))
}

// drain pops everything currently due.
func drain(s *Scheduler) []ID {
	var ids []ID
	for {
		id, ok := s.PopDue()
		if !ok {
			return ids
		}
		ids = append(ids, id)
	}
}

func TestScheduler_FiresOnceWhenDelayElapsed(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		steps []time.Duration
	}{
		{"single step exact", 5 * time.Second, []time.Duration{5 * time.Second}},
		{"single step overshoot", 5 * time.Second, []time.Duration{40 * time.Second}},
		{"many small steps", 2 * time.Second, []time.Duration{
			300 * time.Millisecond, 700 * time.Millisecond, 500 * time.Millisecond,
			400 * time.Millisecond, 100 * time.Millisecond,
		}},
		{"zero delay", 0, []time.Duration{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScheduler()
			s.ScheduleAfter(7, tt.delay, AllPhases)

			var elapsed time.Duration
			fired := 0
			for _, step := range tt.steps {
				s.Advance(step)
				elapsed += step
				got := drain(s)
				if elapsed < tt.delay && len(got) > 0 {
					t.Fatalf("fired at %v, before delay %v", elapsed, tt.delay)
				}
				fired += len(got)
			}

			if fired != 1 {
				t.Errorf("fired %d times, want 1", fired)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d after firing, want 0", s.Len())
			}
		})
	}
}

func TestScheduler_NotDueBeforeDelay(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(1, 10*time.Second, AllPhases)

	s.Advance(9999 * time.Millisecond)
	if id, ok := s.PopDue(); ok {
		t.Fatalf("PopDue() = %d, want nothing due", id)
	}

	rem, ok := s.Remaining(1)
	if !ok || rem != time.Millisecond {
		t.Errorf("Remaining(1) = %v, %v; want 1ms, true", rem, ok)
	}
}

func TestScheduler_ScheduleReplacesPending(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(3, 5*time.Second, AllPhases)
	s.ScheduleAfter(3, 8*time.Second, AllPhases)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	s.Advance(5 * time.Second)
	if got := drain(s); len(got) != 0 {
		t.Fatalf("fired %v at 5s; replaced timer should be due at 8s", got)
	}

	s.Advance(10 * time.Second)
	if got := drain(s); len(got) != 1 {
		t.Errorf("fired %d times, want 1", len(got))
	}
}

func TestScheduler_DueOrderIsInsertionOrder(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(10, 9*time.Second, AllPhases)
	s.ScheduleAfter(20, 1*time.Second, AllPhases)
	s.ScheduleAfter(30, 5*time.Second, AllPhases)

	s.Advance(10 * time.Second)
	got := drain(s)

	want := []ID{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("drained %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("drained[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScheduler_RescheduleMovesToBackOfQueue(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(1, time.Second, AllPhases)
	s.ScheduleAfter(2, time.Second, AllPhases)
	s.ScheduleAfter(1, time.Second, AllPhases)

	s.Advance(time.Second)
	got := drain(s)
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("drained %v, want [2 1]", got)
	}
}

func TestScheduler_PhaseFiltering(t *testing.T) {
	s := newTestScheduler()
	s.SetPhase(testPhaseOne)
	s.ScheduleAfter(1, time.Second, MaskOf(testPhaseOne))
	s.ScheduleAfter(2, time.Second, MaskOf(testPhaseTwo))
	s.ScheduleAfter(3, time.Second, AllPhases)

	s.SetPhase(testPhaseTwo)
	s.Advance(time.Minute)

	got := drain(s)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("drained %v in phase two, want [2 3]", got)
	}

	// Phase-one timer is still there, inert.
	if !s.Pending(1) {
		t.Fatal("phase-one timer was dropped on phase change")
	}
	for range 5 {
		s.Advance(time.Minute)
		if got := drain(s); len(got) != 0 {
			t.Fatalf("phase-one action fired in phase two: %v", got)
		}
	}

	// Coming back to phase one reactivates it.
	s.SetPhase(testPhaseOne)
	if id, ok := s.PopDue(); !ok || id != 1 {
		t.Errorf("PopDue() after reactivation = %d, %v; want 1, true", id, ok)
	}
}

func TestScheduler_NoPhaseMatchesEverything(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(1, 0, MaskOf(testPhaseTwo))

	if id, ok := s.PopDue(); !ok || id != 1 {
		t.Errorf("PopDue() with no phase = %d, %v; want 1, true", id, ok)
	}
}

func TestScheduler_JitterWithinBounds(t *testing.T) {
	s := newTestScheduler()

	for range 500 {
		s.Schedule(1, 15*time.Second, 30*time.Second, AllPhases)
		rem, ok := s.Remaining(1)
		if !ok {
			t.Fatal("Remaining(1) not found")
		}
		if rem < 15*time.Second || rem > 30*time.Second {
			t.Fatalf("delay %v outside [15s, 30s]", rem)
		}
	}
}

func TestScheduler_SwappedBounds(t *testing.T) {
	s := newTestScheduler()
	s.Schedule(1, 10*time.Second, 5*time.Second, AllPhases)

	rem, _ := s.Remaining(1)
	if rem < 5*time.Second || rem > 10*time.Second {
		t.Errorf("delay %v outside [5s, 10s]", rem)
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(1, time.Second, AllPhases)
	s.ScheduleAfter(2, time.Second, AllPhases)

	s.Cancel(1)
	s.Advance(time.Second)

	got := drain(s)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("drained %v after Cancel(1), want [2]", got)
	}
}

func TestScheduler_Delay(t *testing.T) {
	s := newTestScheduler()
	s.ScheduleAfter(1, 2*time.Second, AllPhases)

	s.Advance(time.Second)
	s.Delay(3 * time.Second)
	s.Advance(2 * time.Second)

	if _, ok := s.PopDue(); ok {
		t.Fatal("action fired although delayed")
	}

	s.Advance(2 * time.Second)
	if _, ok := s.PopDue(); !ok {
		t.Error("delayed action did not fire")
	}
}

func TestScheduler_Reset(t *testing.T) {
	s := newTestScheduler()
	s.SetPhase(testPhaseTwo)
	s.ScheduleAfter(1, 0, AllPhases)
	s.ScheduleAfter(2, 0, AllPhases)

	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Len() after Reset() = %d, want 0", s.Len())
	}
	if s.Phase() != NoPhase {
		t.Errorf("Phase() after Reset() = %d, want NoPhase", s.Phase())
	}
	if _, ok := s.PopDue(); ok {
		t.Error("PopDue() after Reset() returned an action")
	}
}

func TestScheduler_IsInPhase(t *testing.T) {
	s := newTestScheduler()
	if !s.IsInPhase(NoPhase) {
		t.Error("new scheduler should be in NoPhase")
	}

	s.SetPhase(testPhaseOne)
	if !s.IsInPhase(testPhaseOne) || s.IsInPhase(testPhaseTwo) {
		t.Errorf("IsInPhase wrong after SetPhase(1): phase=%d", s.Phase())
	}
}

func TestScheduler_NilRandUsesGlobalSource(t *testing.T) {
	s := NewScheduler(nil)
	s.Schedule(1, time.Second, 2*time.Second, AllPhases)

	rem, ok := s.Remaining(1)
	if !ok || rem < time.Second || rem > 2*time.Second {
		t.Errorf("Remaining(1) = %v, %v", rem, ok)
	}
}
