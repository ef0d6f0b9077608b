package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/zgscript/internal/model"
)

// BasicAI is the controller of unscripted creatures: melee the victim,
// idle without one.
type BasicAI struct {
	host      Host
	intention model.Intention
}

// NewBasicAI creates a melee-only controller.
func NewBasicAI(host Host) *BasicAI {
	return &BasicAI{host: host}
}

// OnReset drops back to idle.
func (ai *BasicAI) OnReset() {
	ai.setIntention(model.IntentionIdle)
}

// OnEngage starts attacking.
func (ai *BasicAI) OnEngage(uint32) {
	ai.setIntention(model.IntentionAttack)
}

// OnDamageTaken does nothing.
func (ai *BasicAI) OnDamageTaken(uint32, int32, float64) {}

// OnDeath drops back to idle.
func (ai *BasicAI) OnDeath(uint32) {
	ai.setIntention(model.IntentionIdle)
}

// OnTick swings at the victim if there is one.
func (ai *BasicAI) OnTick(time.Duration) {
	if !ai.host.UpdateVictim() {
		ai.setIntention(model.IntentionIdle)
		return
	}
	ai.setIntention(model.IntentionAttack)
	ai.host.MeleeAttackIfReady()
}

// Intention returns current AI intention.
func (ai *BasicAI) Intention() model.Intention {
	return ai.intention
}

func (ai *BasicAI) setIntention(intention model.Intention) {
	old := ai.intention
	ai.intention = intention

	if old != intention && IsDebugEnabled() {
		slog.Debug("AI intention changed",
			"objectID", ai.host.Self(),
			"from", old,
			"to", intention)
	}
}
