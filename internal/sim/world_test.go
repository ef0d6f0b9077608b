package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/game/zulgurub"
	"github.com/udisondev/zgscript/internal/model"
)

func defaultTuning() config.Encounter {
	return config.DefaultEncounter()
}

func newWorld(t *testing.T, mutate func(*config.Simulator)) (*World, *[]model.EncounterState) {
	t.Helper()
	cfg := config.DefaultSimulator()
	if mutate != nil {
		mutate(&cfg)
	}
	var states []model.EncounterState
	w, err := New(cfg, defaultTuning, func(name string, s model.EncounterState) {
		assert.Equal(t, zulgurub.EncounterJeklik, name)
		states = append(states, s)
	})
	require.NoError(t, err)
	return w, &states
}

func TestNew(t *testing.T) {
	w, states := newWorld(t, func(c *config.Simulator) { c.Players = 4 })

	assert.Len(t, w.alivePlayers(), 4)
	assert.Equal(t, 1, w.Manager().Count())
	assert.Len(t, w.units, 5)
	assert.Equal(t, []model.EncounterState{model.EncounterNotStarted}, *states)
	assert.False(t, w.Done())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.DefaultSimulator()
	cfg.Players = 0
	_, err := New(cfg, defaultTuning, nil)
	assert.Error(t, err)
}

func TestWorld_Kill(t *testing.T) {
	w, states := newWorld(t, func(c *config.Simulator) {
		c.PlayerDPS = 5000
		c.PlayerHP = 1_000_000
	})

	res, err := w.Run(context.Background())
	require.NoError(t, err)

	spells := defaultTuning().Jeklik.Spells
	text := defaultTuning().Jeklik.Text
	assert.Equal(t, OutcomeKill, res.Outcome)
	assert.Equal(t, zulgurub.PhaseTwo, res.Phase)
	assert.Zero(t, res.BossHealth)
	assert.Equal(t, 1, res.Stats.Casts[spells.BatForm])
	assert.Equal(t, []int32{text.Aggro, text.RainFire, text.Death}, res.Stats.Says)
	assert.Equal(t, []model.EncounterState{
		model.EncounterNotStarted,
		model.EncounterInProgress,
		model.EncounterDone,
	}, *states)
	assert.Zero(t, w.Manager().Count(), "dead boss must be unregistered")
}

func TestWorld_PhasesPlayOut(t *testing.T) {
	w, _ := newWorld(t, func(c *config.Simulator) {
		c.Players = 10
		c.PlayerDPS = 50 // 500 dps: half of 100k health after ~100s
		c.BossHP = 100_000
		c.PlayerHP = 1_000_000
		c.Duration = 150 * time.Second
	})

	res, err := w.Run(context.Background())
	require.NoError(t, err)

	j := defaultTuning().Jeklik
	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.Equal(t, 150*time.Second, res.Elapsed)
	assert.Equal(t, zulgurub.PhaseTwo, res.Phase)

	// one ground wave at 60s; the 120s wave falls in phase two
	assert.Equal(t, len(j.Bats.Positions), res.Stats.Summons[j.Bats.TemplateID])
	assert.Positive(t, res.Stats.Summons[j.FlyingBat.TemplateID])
	assert.Positive(t, res.Stats.Casts[j.Spells.Charge])
	assert.Positive(t, res.Stats.Casts[j.Spells.ShadowWordPain])
	assert.Positive(t, res.Stats.Casts[defaultTuning().Batrider.BombSpell])
	assert.Equal(t, []int32{j.Text.Aggro, j.Text.RainFire}, res.Stats.Says)

	boss := w.units[w.BossID()]
	assert.False(t, boss.HasAura(j.Spells.BatForm), "bat form must be removed in phase two")
	assert.False(t, boss.CanFly())
}

func TestWorld_Wipe(t *testing.T) {
	w, states := newWorld(t, func(c *config.Simulator) {
		c.Players = 2
		c.PlayerHP = 100
		c.PlayerDPS = 10
	})

	res, err := w.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeWipe, res.Outcome)
	assert.Equal(t, 2, res.Stats.PlayerDeaths)
	assert.Zero(t, res.PlayersAlive)
	assert.Equal(t, 1.0, res.BossHealth, "boss resets to full health")
	assert.Equal(t, []model.EncounterState{
		model.EncounterNotStarted,
		model.EncounterInProgress,
		model.EncounterNotStarted,
	}, *states)
}

func TestWorld_SummonDespawnsOutOfCombat(t *testing.T) {
	w, _ := newWorld(t, func(c *config.Simulator) { c.PlayerDPS = 0 })
	j := defaultTuning().Jeklik

	boss := w.units[w.BossID()]
	idle, ok := boss.host.Summon(j.Bats.TemplateID, bossHome, 15*time.Second)
	require.True(t, ok)
	busy, ok := boss.host.Summon(j.Bats.TemplateID, bossHome, 15*time.Second)
	require.True(t, ok)
	boss.host.CommandAttack(busy, w.player[0])
	assert.Equal(t, 3, w.Manager().Count())

	for range 149 {
		w.Step(100 * time.Millisecond)
	}
	assert.Contains(t, w.units, idle, "despawned before the timer ran out")

	w.Step(100 * time.Millisecond)
	assert.NotContains(t, w.units, idle)
	assert.Contains(t, w.units, busy, "a bat in combat stays")
	assert.Equal(t, 2, w.Manager().Count())
}

func TestWorld_BatriderIsUnselectable(t *testing.T) {
	w, _ := newWorld(t, nil)
	fb := defaultTuning().Batrider.TemplateID

	boss := w.units[w.BossID()]
	id, ok := boss.host.Summon(fb, bossHome, 15*time.Second)
	require.True(t, ok)
	assert.False(t, w.units[id].IsSelectable())
}

func TestWorld_SpellResolution(t *testing.T) {
	w, _ := newWorld(t, func(c *config.Simulator) {
		c.PlayerDPS = 0
		c.Spells = map[int32]config.SpellEffect{
			1: {Damage: 100},
			2: {CastTime: time.Second, Damage: 100},
			3: {Heal: 50},
			4: {},
		}
	})
	boss := w.units[w.BossID()]
	p := w.units[w.player[0]]
	h := boss.host

	h.Cast(p.ObjectID(), 1)
	assert.Equal(t, w.cfg.PlayerHP-100, p.CurrentHP(), "instant spell")

	h.Cast(p.ObjectID(), 2)
	assert.True(t, h.IsCasting())
	w.advanceCasts(500 * time.Millisecond)
	assert.Equal(t, w.cfg.PlayerHP-100, p.CurrentHP(), "cast not finished")
	w.advanceCasts(500 * time.Millisecond)
	assert.False(t, h.IsCasting())
	assert.Equal(t, w.cfg.PlayerHP-200, p.CurrentHP())

	h.Cast(p.ObjectID(), 2)
	h.InterruptCasts()
	w.advanceCasts(time.Second)
	assert.Equal(t, w.cfg.PlayerHP-200, p.CurrentHP(), "interrupted cast has no effect")

	p.ReduceHP(10)
	h.Cast(p.ObjectID(), 3)
	assert.Equal(t, w.cfg.PlayerHP-160, p.CurrentHP())

	h.CastSelf(4)
	assert.True(t, boss.HasAura(4))
	h.RemoveAura(4)
	assert.False(t, boss.HasAura(4))

	h.Cast(0, 1)
	assert.Equal(t, 1, w.stats.Casts[1], "cast without a target is dropped")
}

func TestWorld_SelectTarget(t *testing.T) {
	w, _ := newWorld(t, func(c *config.Simulator) { c.Players = 3 })
	h := w.units[w.BossID()].host

	seen := make(map[uint32]bool)
	for range 200 {
		id, ok := h.SelectTarget(ai.TargetRandom)
		require.True(t, ok)
		seen[id] = true
	}
	assert.Len(t, seen, 3)

	for _, id := range w.player {
		w.units[id].SetCurrentHP(0)
	}
	_, ok := h.SelectTarget(ai.TargetRandom)
	assert.False(t, ok)
}

func TestWorld_Deterministic(t *testing.T) {
	run := func() Result {
		w, _ := newWorld(t, func(c *config.Simulator) {
			c.Seed = 42
			c.Duration = 90 * time.Second
			c.PlayerDPS = 120
		})
		res, err := w.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, run(), run())
}

func TestWorld_RunCanceled(t *testing.T) {
	w, _ := newWorld(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorld_RunRealtime(t *testing.T) {
	w, _ := newWorld(t, func(c *config.Simulator) {
		c.TickInterval = 5 * time.Millisecond
		c.Duration = 60 * time.Millisecond
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := w.RunRealtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, res.Outcome)
	assert.GreaterOrEqual(t, res.Elapsed, 60*time.Millisecond)
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{OutcomeRunning, "RUNNING"},
		{OutcomeKill, "KILL"},
		{OutcomeWipe, "WIPE"},
		{OutcomeTimeout, "TIMEOUT"},
		{Outcome(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.o.String())
	}
}
