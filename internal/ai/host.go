package ai

import (
	"time"

	"github.com/udisondev/zgscript/internal/model"
)

// TargetPolicy selects a target from the threat list.
type TargetPolicy int32

const (
	// TargetRandom picks uniformly among valid targets.
	TargetRandom TargetPolicy = iota + 1
	// TargetTopAggro picks the most hated valid target.
	TargetTopAggro
)

// String returns human-readable policy name
func (p TargetPolicy) String() string {
	switch p {
	case TargetRandom:
		return "RANDOM"
	case TargetTopAggro:
		return "TOP_AGGRO"
	default:
		return "UNKNOWN"
	}
}

// Targeting is the combat-target surface of the host.
type Targeting interface {
	// UpdateVictim refreshes the current victim and reports whether the
	// agent has a valid one. A false result suspends the control loop.
	UpdateVictim() bool
	// Victim returns the current victim objectID (0 if none).
	Victim() uint32
	// SelectTarget picks a valid target by policy.
	SelectTarget(policy TargetPolicy) (uint32, bool)
	// AttackStart makes target the current victim and starts pursuit.
	AttackStart(target uint32)
	// MeleeAttackIfReady swings at the victim when in range and off cooldown.
	MeleeAttackIfReady()
	// ResetThreat zeroes all accumulated hostility.
	ResetThreat()
}

// Caster is the ability surface of the host. Rejected casts fail silently.
type Caster interface {
	Cast(target uint32, spellID int32)
	CastSelf(spellID int32)
	// IsCasting is the busy signal: true while an uninterruptible cast runs.
	IsCasting() bool
	InterruptCasts()
}

// Summoner spawns short-lived helper agents.
type Summoner interface {
	PositionOf(objectID uint32) (model.Location, bool)
	// Summon creates an agent of templateID at loc. It is removed after
	// despawn spent out of combat.
	Summon(templateID int32, loc model.Location, despawn time.Duration) (uint32, bool)
	// CommandAttack orders a summoned agent to engage target.
	CommandAttack(summonID, target uint32)
}

// Body toggles locomotion, auras and speech of the agent itself.
type Body interface {
	Self() uint32
	SetCanFly(v bool)
	SetSelectable(v bool)
	RemoveAura(spellID int32)
	Say(textID int32)
}

// Host is everything a scripted agent needs from the simulation.
// Implemented per agent by the world.
type Host interface {
	Targeting
	Caster
	Summoner
	Body
}
