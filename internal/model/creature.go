package model

import (
	"sync"
	"sync/atomic"
)

// Creature is a living world object: a player or an NPC.
// Carries health, the current target, the threat list and the
// flags encounter scripts toggle (flight, selectability, auras).
type Creature struct {
	*WorldObject

	templateID int32 // 0 for players
	level      int32
	maxHP      int32

	currentHP  atomic.Int32
	target     atomic.Uint32
	canFly     atomic.Bool
	selectable atomic.Bool
	aggroList  *AggroList
	auras      sync.Map // spellID -> struct{}
}

// NewCreature creates a creature at full health.
func NewCreature(objectID uint32, templateID int32, name string, level, maxHP int32, loc Location) *Creature {
	c := &Creature{
		WorldObject: NewWorldObject(objectID, name, loc),
		templateID:  templateID,
		level:       level,
		maxHP:       max(maxHP, 1),
		aggroList:   NewAggroList(),
	}
	c.currentHP.Store(c.maxHP)
	c.selectable.Store(true)
	return c
}

// TemplateID returns NPC template id (0 for players).
func (c *Creature) TemplateID() int32 {
	return c.templateID
}

// IsPlayer reports whether the creature has no NPC template.
func (c *Creature) IsPlayer() bool {
	return c.templateID == 0
}

// Level returns creature level.
func (c *Creature) Level() int32 {
	return c.level
}

// MaxHP returns maximum health.
func (c *Creature) MaxHP() int32 {
	return c.maxHP
}

// CurrentHP returns current health (atomic read).
func (c *Creature) CurrentHP() int32 {
	return c.currentHP.Load()
}

// SetCurrentHP sets health clamped to [0, maxHP].
func (c *Creature) SetCurrentHP(hp int32) {
	c.currentHP.Store(min(max(hp, 0), c.maxHP))
}

// HealthFraction returns current/max health in [0, 1].
func (c *Creature) HealthFraction() float64 {
	return float64(c.CurrentHP()) / float64(c.maxHP)
}

// IsDead reports whether health reached zero.
func (c *Creature) IsDead() bool {
	return c.CurrentHP() <= 0
}

// ReduceHP subtracts damage. Returns true if this call killed the creature.
func (c *Creature) ReduceHP(damage int32) bool {
	if damage <= 0 {
		return false
	}
	for {
		hp := c.currentHP.Load()
		if hp <= 0 {
			return false
		}
		next := max(hp-damage, 0)
		if c.currentHP.CompareAndSwap(hp, next) {
			return next == 0
		}
	}
}

// Heal adds health up to maxHP. Dead creatures are not healed.
func (c *Creature) Heal(amount int32) {
	for {
		hp := c.currentHP.Load()
		if hp <= 0 || amount <= 0 {
			return
		}
		next := min(hp+amount, c.maxHP)
		if c.currentHP.CompareAndSwap(hp, next) {
			return
		}
	}
}

// Target returns current target objectID (0 if no target).
func (c *Creature) Target() uint32 {
	return c.target.Load()
}

// SetTarget sets current target objectID.
func (c *Creature) SetTarget(objectID uint32) {
	c.target.Store(objectID)
}

// ClearTarget clears current target.
func (c *Creature) ClearTarget() {
	c.target.Store(0)
}

// AggroList returns the threat list.
func (c *Creature) AggroList() *AggroList {
	return c.aggroList
}

// CanFly reports whether the creature is flying.
func (c *Creature) CanFly() bool {
	return c.canFly.Load()
}

// SetCanFly grants or revokes flight.
func (c *Creature) SetCanFly(v bool) {
	c.canFly.Store(v)
}

// IsSelectable reports whether players can target the creature.
func (c *Creature) IsSelectable() bool {
	return c.selectable.Load()
}

// SetSelectable toggles player targetability.
func (c *Creature) SetSelectable(v bool) {
	c.selectable.Store(v)
}

// AddAura applies an ongoing effect.
func (c *Creature) AddAura(spellID int32) {
	c.auras.Store(spellID, struct{}{})
}

// RemoveAura removes an ongoing effect. No-op if absent.
func (c *Creature) RemoveAura(spellID int32) {
	c.auras.Delete(spellID)
}

// HasAura reports whether the effect is active.
func (c *Creature) HasAura(spellID int32) bool {
	_, ok := c.auras.Load(spellID)
	return ok
}
