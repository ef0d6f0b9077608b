package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/udisondev/zgscript/internal/event"
	"github.com/udisondev/zgscript/internal/model"
	"github.com/udisondev/zgscript/internal/phase"
)

// BossScript declares a phased boss: its actions, phase graph and the
// side effects of its lifecycle hooks. Immutable once handed to NewBossAI.
type BossScript struct {
	Name    string
	Initial event.Phase
	Graph   *phase.Graph
	Actions []Action

	// Optional hooks. Enter runs when a phase is reached through the graph,
	// before that phase's actions are scheduled.
	Engage func(h Host, who uint32)
	Enter  map[event.Phase]func(h Host)
	Death  func(h Host, killer uint32)
	Reset  func(h Host)
}

// Validate checks the script is self-consistent.
func (s *BossScript) Validate() error {
	if !s.Initial.Valid() {
		return fmt.Errorf("boss %q: initial phase %d: %w", s.Name, s.Initial, phase.ErrInvalidPhase)
	}
	if s.Graph == nil {
		return fmt.Errorf("boss %q: nil phase graph", s.Name)
	}

	seen := make(map[event.ID]struct{}, len(s.Actions))
	for i := range s.Actions {
		a := &s.Actions[i]
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("boss %q: duplicate action id %d", s.Name, a.ID)
		}
		seen[a.ID] = struct{}{}
		if err := a.validate(); err != nil {
			return fmt.Errorf("boss %q: %w", s.Name, err)
		}
	}
	return nil
}

// ProgressFunc receives encounter progress changes.
type ProgressFunc func(encounter string, state model.EncounterState)

// BossAI is the per-tick control loop of a phased boss.
//
// Tick order: victim gate, advance timers, busy gate, drain due actions
// (re-arming each and re-checking busy after each), then melee. Busy stops
// dispatch only; melee still runs whenever the victim gate passed.
type BossAI struct {
	host    Host
	script  *BossScript
	sched   *event.Scheduler
	machine *phase.Machine
	actions map[event.ID]*Action

	engaged    bool
	dispatched map[event.ID]int
	progress   ProgressFunc
}

// NewBossAI creates a boss controller. rng drives delay jitter; nil uses
// the global source.
func NewBossAI(host Host, script *BossScript, rng *rand.Rand) (*BossAI, error) {
	if host == nil {
		return nil, errors.New("nil host")
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	ai := &BossAI{
		host:       host,
		script:     script,
		sched:      event.NewScheduler(rng),
		actions:    make(map[event.ID]*Action, len(script.Actions)),
		dispatched: make(map[event.ID]int, len(script.Actions)),
	}
	for i := range script.Actions {
		ai.actions[script.Actions[i].ID] = &script.Actions[i]
	}
	ai.machine = phase.NewMachine(script.Graph, ai.sched, ai.enterPhase)

	return ai, nil
}

// SetProgressFunc sets the encounter progress listener.
func (ai *BossAI) SetProgressFunc(fn ProgressFunc) {
	ai.progress = fn
}

// OnReset drops every timer and leaves combat state.
func (ai *BossAI) OnReset() {
	ai.sched.Reset()
	ai.engaged = false
	clear(ai.dispatched)

	if ai.script.Reset != nil {
		ai.script.Reset(ai.host)
	}
	ai.report(model.EncounterNotStarted)

	if IsDebugEnabled() {
		slog.Debug("boss AI reset", "boss", ai.script.Name, "objectID", ai.host.Self())
	}
}

// OnEngage enters the initial phase and arms its actions.
func (ai *BossAI) OnEngage(who uint32) {
	ai.sched.Reset()
	ai.sched.SetPhase(ai.script.Initial)
	ai.engaged = true
	clear(ai.dispatched)

	for i := range ai.script.Actions {
		a := &ai.script.Actions[i]
		if a.Phases == event.AllPhases || a.Phases.Has(ai.script.Initial) {
			ai.sched.Schedule(a.ID, a.First.Min, a.First.Max, a.Phases)
		}
	}

	if ai.script.Engage != nil {
		ai.script.Engage(ai.host, who)
	}
	ai.report(model.EncounterInProgress)

	slog.Info("boss engaged",
		"boss", ai.script.Name,
		"objectID", ai.host.Self(),
		"who", who,
		"phase", ai.script.Initial)
}

// OnDamageTaken feeds the phase machine. Transitions are taken at most
// once: after the first one the scheduler is no longer in the source phase.
func (ai *BossAI) OnDamageTaken(attacker uint32, amount int32, healthFraction float64) {
	if !ai.engaged {
		return
	}
	ai.machine.Fire(phase.Stimulus{
		Kind:           phase.StimulusDamage,
		Attacker:       attacker,
		Amount:         amount,
		HealthFraction: healthFraction,
	})
}

// OnDeath ends the encounter.
func (ai *BossAI) OnDeath(killer uint32) {
	ai.sched.Reset()
	ai.engaged = false
	clear(ai.dispatched)

	if ai.script.Death != nil {
		ai.script.Death(ai.host, killer)
	}
	ai.report(model.EncounterDone)

	slog.Info("boss died", "boss", ai.script.Name, "objectID", ai.host.Self(), "killer", killer)
}

// OnTick runs one control-loop step.
func (ai *BossAI) OnTick(dt time.Duration) {
	if !ai.host.UpdateVictim() {
		return
	}

	ai.sched.Advance(dt)

	if !ai.host.IsCasting() {
		ai.dispatch()
	}

	ai.host.MeleeAttackIfReady()
}

func (ai *BossAI) dispatch() {
	for {
		id, ok := ai.sched.PopDue()
		if !ok {
			return
		}

		a, known := ai.actions[id]
		if !known {
			continue
		}

		a.Run(ai.host)
		ai.sched.Schedule(a.ID, a.Repeat.Min, a.Repeat.Max, a.Phases)
		ai.dispatched[id]++

		if IsDebugEnabled() {
			next, _ := ai.sched.Remaining(a.ID)
			slog.Debug("boss action",
				"boss", ai.script.Name,
				"action", a.Name,
				"phase", ai.sched.Phase(),
				"next", next)
		}

		if ai.host.IsCasting() {
			return
		}
	}
}

// enterPhase runs after the machine switched the scheduler to phase to.
func (ai *BossAI) enterPhase(from, to event.Phase, s phase.Stimulus) {
	if fn := ai.script.Enter[to]; fn != nil {
		fn(ai.host)
	}

	for i := range ai.script.Actions {
		a := &ai.script.Actions[i]
		if a.Phases.Has(to) {
			ai.sched.Schedule(a.ID, a.First.Min, a.First.Max, a.Phases)
		}
	}

	slog.Info("boss phase changed",
		"boss", ai.script.Name,
		"objectID", ai.host.Self(),
		"from", from,
		"to", to,
		"health", s.HealthFraction)
}

func (ai *BossAI) report(state model.EncounterState) {
	if ai.progress != nil {
		ai.progress(ai.script.Name, state)
	}
}

// Phase returns the current phase (NoPhase when out of combat).
func (ai *BossAI) Phase() event.Phase {
	return ai.sched.Phase()
}

// Engaged reports whether the boss is in combat.
func (ai *BossAI) Engaged() bool {
	return ai.engaged
}

// Scheduler exposes the timer queue for inspection.
func (ai *BossAI) Scheduler() *event.Scheduler {
	return ai.sched
}

// Dispatched returns how many times action id fired since the last reset.
func (ai *BossAI) Dispatched(id event.ID) int {
	return ai.dispatched[id]
}
