package testutil

import (
	"time"

	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/model"
)

// CastCall records a targeted cast.
type CastCall struct {
	Target  uint32
	SpellID int32
}

// SummonCall records a summon request.
type SummonCall struct {
	ID         uint32
	TemplateID int32
	Loc        model.Location
	Despawn    time.Duration
}

// CommandCall records an attack order given to a summon.
type CommandCall struct {
	SummonID uint32
	Target   uint32
}

// Host is a recording ai.Host for controller tests.
//
// Targets are handed out round-robin by SelectTarget(TargetRandom);
// TargetTopAggro always returns Targets[0]. Spells listed in BusySpells
// leave the host casting until Finish is called.
type Host struct {
	SelfID     uint32
	VictimID   uint32
	Targets    []uint32
	Positions  map[uint32]model.Location
	BusySpells map[int32]bool
	Casting    bool
	FailSummon bool

	Casts        []CastCall
	SelfCasts    []int32
	Interrupts   int
	Melee        int
	AttackStarts []uint32
	Summons      []SummonCall
	Commands     []CommandCall
	Says         []int32
	Flying       bool
	Selectable   bool
	Removed      []int32
	ThreatResets int

	nextTarget int
	nextSummon uint32
}

var _ ai.Host = (*Host)(nil)

// NewHost creates a host with a victim and the given valid targets.
func NewHost(self uint32, targets ...uint32) *Host {
	h := &Host{
		SelfID:     self,
		Targets:    targets,
		Positions:  make(map[uint32]model.Location),
		BusySpells: make(map[int32]bool),
		Selectable: true,
		nextSummon: self + 1000,
	}
	if len(targets) > 0 {
		h.VictimID = targets[0]
	}
	return h
}

// Finish ends the current cast.
func (h *Host) Finish() {
	h.Casting = false
}

// CastsOf returns how many times spellID was cast, targeted or on self.
func (h *Host) CastsOf(spellID int32) int {
	n := 0
	for _, c := range h.Casts {
		if c.SpellID == spellID {
			n++
		}
	}
	for _, s := range h.SelfCasts {
		if s == spellID {
			n++
		}
	}
	return n
}

func (h *Host) UpdateVictim() bool { return h.VictimID != 0 }
func (h *Host) Victim() uint32     { return h.VictimID }

func (h *Host) SelectTarget(policy ai.TargetPolicy) (uint32, bool) {
	if len(h.Targets) == 0 {
		return 0, false
	}
	if policy == ai.TargetTopAggro {
		return h.Targets[0], true
	}
	t := h.Targets[h.nextTarget%len(h.Targets)]
	h.nextTarget++
	return t, true
}

func (h *Host) AttackStart(target uint32) {
	h.AttackStarts = append(h.AttackStarts, target)
	h.VictimID = target
}

func (h *Host) MeleeAttackIfReady() { h.Melee++ }
func (h *Host) ResetThreat()        { h.ThreatResets++ }

func (h *Host) Cast(target uint32, spellID int32) {
	h.Casts = append(h.Casts, CastCall{Target: target, SpellID: spellID})
	if h.BusySpells[spellID] {
		h.Casting = true
	}
}

func (h *Host) CastSelf(spellID int32) {
	h.SelfCasts = append(h.SelfCasts, spellID)
	if h.BusySpells[spellID] {
		h.Casting = true
	}
}

func (h *Host) IsCasting() bool { return h.Casting }

func (h *Host) InterruptCasts() {
	h.Interrupts++
	h.Casting = false
}

func (h *Host) PositionOf(objectID uint32) (model.Location, bool) {
	loc, ok := h.Positions[objectID]
	return loc, ok
}

func (h *Host) Summon(templateID int32, loc model.Location, despawn time.Duration) (uint32, bool) {
	if h.FailSummon {
		return 0, false
	}
	h.nextSummon++
	h.Summons = append(h.Summons, SummonCall{
		ID:         h.nextSummon,
		TemplateID: templateID,
		Loc:        loc,
		Despawn:    despawn,
	})
	return h.nextSummon, true
}

func (h *Host) CommandAttack(summonID, target uint32) {
	h.Commands = append(h.Commands, CommandCall{SummonID: summonID, Target: target})
}

func (h *Host) Self() uint32             { return h.SelfID }
func (h *Host) SetCanFly(v bool)         { h.Flying = v }
func (h *Host) SetSelectable(v bool)     { h.Selectable = v }
func (h *Host) RemoveAura(spellID int32) { h.Removed = append(h.Removed, spellID) }
func (h *Host) Say(textID int32)         { h.Says = append(h.Says, textID) }
