package sim

import (
	"log/slog"
	"time"

	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/model"
)

type castState struct {
	spellID   int32
	target    uint32
	remaining time.Duration
}

// unit is a creature taking part in the fight. Players have no controller.
type unit struct {
	*model.Creature

	ctrl  ai.Controller
	host  *unitHost
	melee int32

	summon   bool
	despawn  time.Duration
	idle     time.Duration // time spent out of combat, summons only
	inCombat bool
	evading  bool
	swing    time.Duration // until the next melee swing
	cast     *castState
}

// unitHost is the ai.Host of one unit.
type unitHost struct {
	w *World
	u *unit
}

var _ ai.Host = (*unitHost)(nil)

// UpdateVictim keeps the current victim while it lives, otherwise falls
// back to the most hated living attacker. With nobody left the unit
// leaves combat.
func (h *unitHost) UpdateVictim() bool {
	u := h.u
	if u.IsDead() || !u.inCombat {
		return false
	}
	if t := h.w.units[u.Target()]; t != nil && !t.IsDead() {
		return true
	}

	if next := u.AggroList().GetMostHated(); next != 0 {
		u.SetTarget(next)
		return true
	}

	u.ClearTarget()
	u.inCombat = false
	if !u.summon {
		u.evading = true
	}
	return false
}

func (h *unitHost) Victim() uint32 {
	return h.u.Target()
}

func (h *unitHost) SelectTarget(policy ai.TargetPolicy) (uint32, bool) {
	alive := h.w.alivePlayers()
	if len(alive) == 0 {
		return 0, false
	}
	if policy == ai.TargetTopAggro {
		if top := h.u.AggroList().GetMostHated(); top != 0 {
			return top, true
		}
		return alive[0], true
	}
	return alive[h.w.rng.IntN(len(alive))], true
}

func (h *unitHost) AttackStart(target uint32) {
	t := h.w.units[target]
	if t == nil || t.IsDead() {
		return
	}
	h.u.SetTarget(target)
	h.u.AggroList().AddHate(target, 1)
	h.w.engage(h.u, target)
}

func (h *unitHost) MeleeAttackIfReady() {
	u := h.u
	if u.swing > 0 || u.melee <= 0 {
		return
	}
	t := h.w.units[u.Target()]
	if t == nil || t.IsDead() {
		return
	}
	u.swing = h.w.cfg.MeleeSwing
	h.w.stats.MeleeSwings++
	h.w.damage(u, t, u.melee)
}

func (h *unitHost) ResetThreat() {
	h.u.AggroList().ResetHate()
}

func (h *unitHost) Cast(target uint32, spellID int32) {
	if target == 0 {
		return
	}
	h.w.cast(h.u, target, spellID)
}

func (h *unitHost) CastSelf(spellID int32) {
	h.w.cast(h.u, h.u.ObjectID(), spellID)
}

func (h *unitHost) IsCasting() bool {
	return h.u.cast != nil
}

func (h *unitHost) InterruptCasts() {
	if c := h.u.cast; c != nil && ai.IsDebugEnabled() {
		slog.Debug("cast interrupted", "objectID", h.u.ObjectID(), "spell", c.spellID)
	}
	h.u.cast = nil
}

func (h *unitHost) PositionOf(objectID uint32) (model.Location, bool) {
	t := h.w.units[objectID]
	if t == nil {
		return model.Location{}, false
	}
	return t.Location(), true
}

func (h *unitHost) Summon(templateID int32, loc model.Location, despawn time.Duration) (uint32, bool) {
	s, err := h.w.spawnSummon(templateID, loc, despawn)
	if err != nil {
		slog.Error("summon failed", "summoner", h.u.ObjectID(), "template", templateID, "error", err)
		return 0, false
	}
	return s.ObjectID(), true
}

func (h *unitHost) CommandAttack(summonID, target uint32) {
	if s := h.w.units[summonID]; s != nil {
		s.host.AttackStart(target)
	}
}

func (h *unitHost) Self() uint32 {
	return h.u.ObjectID()
}

func (h *unitHost) SetCanFly(v bool) {
	h.u.SetCanFly(v)
}

func (h *unitHost) SetSelectable(v bool) {
	h.u.SetSelectable(v)
}

func (h *unitHost) RemoveAura(spellID int32) {
	h.u.RemoveAura(spellID)
}

func (h *unitHost) Say(textID int32) {
	h.w.stats.Says = append(h.w.stats.Says, textID)
	slog.Info("creature says", "objectID", h.u.ObjectID(), "name", h.u.Name(), "text", textID)
}
