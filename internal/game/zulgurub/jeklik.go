// Package zulgurub contains the creature scripts of the Zul'Gurub raid.
package zulgurub

import (
	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/event"
	"github.com/udisondev/zgscript/internal/phase"
)

// Jeklik phases.
const (
	PhaseOne event.Phase = 1 // bat form, airborne
	PhaseTwo event.Phase = 2 // priestess form
)

// Jeklik action ids.
const (
	ActionCharge event.ID = iota + 1
	ActionSonicBurst
	ActionScreech
	ActionSpawnBats
	ActionShadowWordPain
	ActionMindFlay
	ActionChainMindFlay
	ActionGreaterHeal
	ActionSpawnFlyingBats
)

// EncounterJeklik is the progress key of the encounter.
const EncounterJeklik = "jeklik"

func delay(r config.Range) ai.Delay {
	return ai.Between(r.Min, r.Max)
}

func timed(t config.ActionTiming) (first, repeat ai.Delay) {
	return delay(t.First), delay(t.Repeat)
}

// NewJeklikScript builds the High Priestess Jeklik behavior from cfg.
// Phase one ends the first time damage leaves her strictly below
// cfg.PhaseTwoHealth of her maximum health.
func NewJeklikScript(cfg config.Jeklik) (*ai.BossScript, error) {
	graph, err := phase.NewGraph(phase.Edge{
		From:  PhaseOne,
		To:    PhaseTwo,
		Guard: phase.HealthBelow(cfg.PhaseTwoHealth),
	})
	if err != nil {
		return nil, err
	}

	spells := cfg.Spells
	one := event.MaskOf(PhaseOne)
	two := event.MaskOf(PhaseTwo)

	actions := []ai.Action{
		{
			ID: ActionCharge, Name: "charge", Phases: one,
			Run: func(h ai.Host) {
				target, ok := h.SelectTarget(ai.TargetRandom)
				if !ok {
					return
				}
				h.Cast(target, spells.Charge)
				h.AttackStart(target)
			},
		},
		{
			ID: ActionSonicBurst, Name: "sonic burst", Phases: one,
			Run: func(h ai.Host) { h.Cast(h.Victim(), spells.SonicBurst) },
		},
		{
			ID: ActionScreech, Name: "screech", Phases: one,
			Run: func(h ai.Host) { h.Cast(h.Victim(), spells.Screech) },
		},
		{
			ID: ActionSpawnBats, Name: "spawn bats", Phases: one,
			Run: func(h ai.Host) { spawnBats(h, cfg.Bats) },
		},
		{
			ID: ActionShadowWordPain, Name: "shadow word: pain", Phases: two,
			Run: func(h ai.Host) {
				if target, ok := h.SelectTarget(ai.TargetRandom); ok {
					h.Cast(target, spells.ShadowWordPain)
				}
			},
		},
		{
			ID: ActionMindFlay, Name: "mind flay", Phases: two,
			Run: func(h ai.Host) { h.Cast(h.Victim(), spells.MindFlay) },
		},
		{
			ID: ActionChainMindFlay, Name: "chain mind flay", Phases: two,
			Run: func(h ai.Host) {
				h.InterruptCasts()
				h.Cast(h.Victim(), spells.ChainMindFlay)
			},
		},
		{
			ID: ActionGreaterHeal, Name: "greater heal", Phases: two,
			Run: func(h ai.Host) {
				h.InterruptCasts()
				h.CastSelf(spells.GreaterHeal)
			},
		},
		{
			ID: ActionSpawnFlyingBats, Name: "spawn flying bats", Phases: two,
			Run: func(h ai.Host) { spawnFlyingBat(h, cfg.FlyingBat) },
		},
	}

	timings := map[event.ID]config.ActionTiming{
		ActionCharge:          cfg.Timings.Charge,
		ActionSonicBurst:      cfg.Timings.SonicBurst,
		ActionScreech:         cfg.Timings.Screech,
		ActionSpawnBats:       cfg.Timings.SpawnBats,
		ActionShadowWordPain:  cfg.Timings.ShadowWordPain,
		ActionMindFlay:        cfg.Timings.MindFlay,
		ActionChainMindFlay:   cfg.Timings.ChainMindFlay,
		ActionGreaterHeal:     cfg.Timings.GreaterHeal,
		ActionSpawnFlyingBats: cfg.Timings.SpawnFlyingBats,
	}
	for i := range actions {
		actions[i].First, actions[i].Repeat = timed(timings[actions[i].ID])
	}

	script := &ai.BossScript{
		Name:    cfg.Name,
		Initial: PhaseOne,
		Graph:   graph,
		Actions: actions,
		Engage: func(h ai.Host, _ uint32) {
			h.Say(cfg.Text.Aggro)
			h.SetCanFly(true)
			h.CastSelf(spells.BatForm)
		},
		Enter: map[event.Phase]func(h ai.Host){
			PhaseTwo: func(h ai.Host) {
				h.Say(cfg.Text.RainFire)
				h.RemoveAura(spells.BatForm)
				h.SetCanFly(false)
				h.ResetThreat()
			},
		},
		Death: func(h ai.Host, _ uint32) {
			h.Say(cfg.Text.Death)
		},
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return script, nil
}

// spawnBats summons the ground wave, every bat on the same random player.
func spawnBats(h ai.Host, wave config.BatWave) {
	target, ok := h.SelectTarget(ai.TargetRandom)
	if !ok {
		return
	}
	for _, pos := range wave.Positions {
		if bat, ok := h.Summon(wave.TemplateID, pos, wave.Despawn); ok {
			h.CommandAttack(bat, target)
		}
	}
}

// spawnFlyingBat summons one bat above a random player.
func spawnFlyingBat(h ai.Host, fb config.FlyingBat) {
	target, ok := h.SelectTarget(ai.TargetRandom)
	if !ok {
		return
	}
	pos, ok := h.PositionOf(target)
	if !ok {
		return
	}
	if bat, ok := h.Summon(fb.TemplateID, pos.Offset(0, 0, fb.HeightOffset).WithHeading(0), fb.Despawn); ok {
		h.CommandAttack(bat, target)
	}
}
