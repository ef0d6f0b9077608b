package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RepeatingScript declares a phase-less agent with a single ability on a
// countdown: First until the first use, Interval between later uses.
type RepeatingScript struct {
	Name     string
	First    time.Duration
	Interval time.Duration
	Run      func(h Host)
	Reset    func(h Host)
}

// RepeatingAI is the minimal control loop: one timer, no phases and no
// busy gate.
type RepeatingAI struct {
	host   Host
	script *RepeatingScript
	timer  time.Duration
	fired  int
}

// NewRepeatingAI creates a single-timer controller.
func NewRepeatingAI(host Host, script *RepeatingScript) (*RepeatingAI, error) {
	if host == nil {
		return nil, errors.New("nil host")
	}
	if script.Run == nil {
		return nil, fmt.Errorf("repeating script %q: nil Run", script.Name)
	}
	if script.First < 0 || script.Interval <= 0 {
		return nil, fmt.Errorf("repeating script %q: bad timings first=%v interval=%v", script.Name, script.First, script.Interval)
	}

	return &RepeatingAI{
		host:   host,
		script: script,
		timer:  script.First,
	}, nil
}

// OnReset re-arms the timer to its first-use value.
func (ai *RepeatingAI) OnReset() {
	ai.timer = ai.script.First
	if ai.script.Reset != nil {
		ai.script.Reset(ai.host)
	}
}

// OnEngage does nothing: the countdown starts with the first tick that has a victim.
func (ai *RepeatingAI) OnEngage(uint32) {}

// OnDamageTaken does nothing.
func (ai *RepeatingAI) OnDamageTaken(uint32, int32, float64) {}

// OnDeath does nothing.
func (ai *RepeatingAI) OnDeath(uint32) {}

// OnTick counts down and fires the ability when the timer runs out.
func (ai *RepeatingAI) OnTick(dt time.Duration) {
	if !ai.host.UpdateVictim() {
		return
	}

	if ai.timer <= dt {
		ai.script.Run(ai.host)
		ai.timer = ai.script.Interval
		ai.fired++

		if IsDebugEnabled() {
			slog.Debug("repeating ability fired",
				"agent", ai.script.Name,
				"objectID", ai.host.Self(),
				"next", ai.timer)
		}
	} else {
		ai.timer -= dt
	}

	ai.host.MeleeAttackIfReady()
}

// Remaining returns time until the next use.
func (ai *RepeatingAI) Remaining() time.Duration {
	return ai.timer
}

// Fired returns how many times the ability was used.
func (ai *RepeatingAI) Fired() int {
	return ai.fired
}
