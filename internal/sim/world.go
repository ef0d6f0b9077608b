// Package sim is an in-memory host for creature scripts: it resolves
// spells, melee, summons and threat for a scripted boss fight against a
// group of simulated players.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/event"
	"github.com/udisondev/zgscript/internal/game/zulgurub"
	"github.com/udisondev/zgscript/internal/model"
)

// Outcome is how a simulated fight ended.
type Outcome int32

const (
	OutcomeRunning Outcome = iota
	OutcomeKill
	OutcomeWipe
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "RUNNING"
	case OutcomeKill:
		return "KILL"
	case OutcomeWipe:
		return "WIPE"
	case OutcomeTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Stats are counters collected during a fight.
type Stats struct {
	Casts        map[int32]int // spellID → casts started
	Summons      map[int32]int // templateID → creatures summoned
	Says         []int32
	MeleeSwings  int
	PlayerDeaths int
}

// Result summarizes a fight.
type Result struct {
	Outcome      Outcome
	Elapsed      time.Duration
	Phase        event.Phase // highest boss phase reached
	BossHealth   float64
	PlayersAlive int
	Stats        Stats
}

// bossHome is where the boss is spawned; players stand around it.
var bossHome = model.NewLocation(-12291, -1380, 145, 0)

// World runs one boss fight. Not safe for concurrent use: Step, Run and
// RunRealtime must be driven from a single goroutine.
type World struct {
	cfg    config.Simulator
	rng    *rand.Rand
	reg    *ai.Registry
	ticks  *ai.TickManager
	ids    *objectIDGenerator
	units  map[uint32]*unit
	boss   *unit
	player []uint32 // sorted

	elapsed time.Duration
	outcome Outcome
	phase   event.Phase
	stats   Stats
}

// New creates a world with the boss and cfg.Players players. tuning is read
// whenever a scripted creature spawns. progress receives encounter state
// changes and may be nil.
func New(cfg config.Simulator, tuning func() config.Encounter, progress ai.ProgressFunc) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulator config: %w", err)
	}

	w := &World{
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		reg:   ai.NewRegistry(),
		ticks: ai.NewTickManager(cfg.TickInterval),
		ids:   newObjectIDGenerator(),
		units: make(map[uint32]*unit, cfg.Players+16),
		stats: Stats{
			Casts:   make(map[int32]int),
			Summons: make(map[int32]int),
		},
	}

	if err := zulgurub.Register(w.reg, tuning, w.rng, progress); err != nil {
		return nil, err
	}

	for i := range cfg.Players {
		id := w.ids.NextPlayerID()
		loc := bossHome.Offset(int32(i%5)*3-6, int32(i/5)*3+5, 0)
		p := &unit{Creature: model.NewCreature(id, 0, fmt.Sprintf("player-%d", i+1), 60, cfg.PlayerHP, loc)}
		p.host = &unitHost{w: w, u: p}
		w.units[id] = p
		w.player = append(w.player, id)
	}

	jeklik := tuning().Jeklik
	boss, err := w.spawn(jeklik.TemplateID, jeklik.Name, cfg.BossHP, cfg.MeleeDamage, bossHome)
	if err != nil {
		return nil, fmt.Errorf("spawning boss: %w", err)
	}
	w.boss = boss

	slog.Info("world created",
		"players", cfg.Players,
		"boss", jeklik.Name,
		"bossID", boss.ObjectID(),
		"seed", cfg.Seed)
	return w, nil
}

// Manager returns the AI tick manager.
func (w *World) Manager() *ai.TickManager {
	return w.ticks
}

// BossID returns the boss objectID.
func (w *World) BossID() uint32 {
	return w.boss.ObjectID()
}

// Done reports whether the fight has ended.
func (w *World) Done() bool {
	return w.outcome != OutcomeRunning
}

// Step advances the fight by dt: casts in progress, swing timers, player
// damage, every AI controller, summon despawn, then the outcome check.
func (w *World) Step(dt time.Duration) {
	if w.Done() || dt <= 0 {
		return
	}
	w.elapsed += dt

	w.advanceCasts(dt)
	for _, u := range w.units {
		u.swing = max(u.swing-dt, 0)
	}
	w.playersAttack(dt)
	w.ticks.TickAll(dt)
	w.despawnIdle(dt)
	w.settle()
}

// Run steps the fight at the configured tick until it ends, the configured
// duration elapses or ctx is canceled.
func (w *World) Run(ctx context.Context) (Result, error) {
	for !w.Done() && w.elapsed < w.cfg.Duration {
		if err := ctx.Err(); err != nil {
			return w.Result(), err
		}
		w.Step(w.cfg.TickInterval)
	}
	if !w.Done() {
		w.outcome = OutcomeTimeout
	}
	return w.Result(), nil
}

// RunRealtime drives the fight from the tick manager's wall-clock loop.
func (w *World) RunRealtime(ctx context.Context) (Result, error) {
	w.ticks.SetTickFunc(func(dt time.Duration) {
		w.Step(dt)
		if !w.Done() && w.elapsed >= w.cfg.Duration {
			w.outcome = OutcomeTimeout
		}
		if w.Done() {
			w.ticks.Stop()
		}
	})
	err := w.ticks.Start(ctx)
	return w.Result(), err
}

// Result returns the current summary.
func (w *World) Result() Result {
	r := Result{
		Outcome:    w.outcome,
		Elapsed:    w.elapsed,
		Phase:      w.phase,
		BossHealth: w.boss.HealthFraction(),
		Stats: Stats{
			Casts:        maps.Clone(w.stats.Casts),
			Summons:      maps.Clone(w.stats.Summons),
			Says:         slices.Clone(w.stats.Says),
			MeleeSwings:  w.stats.MeleeSwings,
			PlayerDeaths: w.stats.PlayerDeaths,
		},
		PlayersAlive: len(w.alivePlayers()),
	}
	return r
}

func (w *World) spawn(templateID int32, name string, hp, melee int32, loc model.Location) (*unit, error) {
	id := w.ids.NextNpcID()
	u := &unit{
		Creature: model.NewCreature(id, templateID, name, 63, hp, loc),
		melee:    melee,
	}
	u.host = &unitHost{w: w, u: u}

	ctrl, err := w.reg.New(templateID, u.host)
	if err != nil {
		return nil, err
	}
	u.ctrl = ctrl
	w.units[id] = u
	w.ticks.Register(id, ctrl)
	return u, nil
}

func (w *World) spawnSummon(templateID int32, loc model.Location, despawn time.Duration) (*unit, error) {
	name, ok := w.reg.Name(templateID)
	if !ok {
		name = fmt.Sprintf("npc-%d", templateID)
	}
	s, err := w.spawn(templateID, name, w.cfg.SummonHP, w.cfg.SummonMelee, loc)
	if err != nil {
		return nil, err
	}
	s.summon = true
	s.despawn = despawn
	w.stats.Summons[templateID]++
	return s, nil
}

func (w *World) remove(u *unit) {
	w.ticks.Unregister(u.ObjectID())
	delete(w.units, u.ObjectID())
}

func (w *World) alivePlayers() []uint32 {
	alive := make([]uint32, 0, len(w.player))
	for _, id := range w.player {
		if p := w.units[id]; p != nil && !p.IsDead() {
			alive = append(alive, id)
		}
	}
	return alive
}

func (w *World) sortedUnits() []*unit {
	ids := slices.Sorted(maps.Keys(w.units))
	units := make([]*unit, 0, len(ids))
	for _, id := range ids {
		units = append(units, w.units[id])
	}
	return units
}

func (w *World) engage(u *unit, who uint32) {
	if u.inCombat || u.IsDead() {
		return
	}
	u.inCombat = true
	u.idle = 0
	if u.Target() == 0 {
		u.SetTarget(who)
	}
	if u.ctrl != nil {
		u.ctrl.OnEngage(who)
	}
}

func (w *World) damage(attacker, victim *unit, amount int32) {
	if victim.IsDead() || amount <= 0 {
		return
	}
	killed := victim.ReduceHP(amount)

	if !victim.IsPlayer() {
		aggro := victim.AggroList()
		aggro.AddDamage(attacker.ObjectID(), int64(amount))
		aggro.AddHate(attacker.ObjectID(), model.CalcHateValue(amount, attacker.Level()))
		w.engage(victim, attacker.ObjectID())
		if !killed && victim.ctrl != nil {
			victim.ctrl.OnDamageTaken(attacker.ObjectID(), amount, victim.HealthFraction())
		}
		if victim == w.boss {
			w.notePhase()
		}
	}

	if killed {
		w.kill(victim, attacker)
	}
}

func (w *World) notePhase() {
	b, ok := w.boss.ctrl.(*ai.BossAI)
	if !ok {
		return
	}
	if p := b.Phase(); p > w.phase {
		if w.phase != event.NoPhase {
			slog.Info("boss phase changed", "from", w.phase, "to", p, "elapsed", w.elapsed)
		}
		w.phase = p
	}
}

func (w *World) kill(victim, killer *unit) {
	victim.cast = nil
	victim.inCombat = false
	victim.ClearTarget()

	if victim.IsPlayer() {
		w.stats.PlayerDeaths++
		for _, u := range w.units {
			u.AggroList().Remove(victim.ObjectID())
		}
		slog.Info("player died", "objectID", victim.ObjectID(), "killer", killer.Name())
		return
	}

	if victim.ctrl != nil {
		victim.ctrl.OnDeath(killer.ObjectID())
	}
	if victim == w.boss {
		w.ticks.Unregister(victim.ObjectID())
		w.outcome = OutcomeKill
		slog.Info("boss killed", "boss", victim.Name(), "elapsed", w.elapsed)
		return
	}
	w.remove(victim)
}

func (w *World) cast(u *unit, target uint32, spellID int32) {
	eff := w.cfg.Spells[spellID]
	w.stats.Casts[spellID]++

	if ai.IsDebugEnabled() {
		slog.Debug("cast", "caster", u.ObjectID(), "target", target, "spell", spellID, "castTime", eff.CastTime)
	}

	if eff.CastTime > 0 {
		u.cast = &castState{spellID: spellID, target: target, remaining: eff.CastTime}
		return
	}
	w.resolve(u, target, spellID, eff)
}

// resolve applies a finished spell. Spells with neither damage nor heal
// are auras on the target.
func (w *World) resolve(caster *unit, target uint32, spellID int32, eff config.SpellEffect) {
	t := w.units[target]
	if t == nil || t.IsDead() || caster.IsDead() {
		return
	}
	switch {
	case eff.Damage > 0:
		w.damage(caster, t, eff.Damage)
	case eff.Heal > 0:
		t.Heal(eff.Heal)
	default:
		t.AddAura(spellID)
	}
}

func (w *World) advanceCasts(dt time.Duration) {
	for _, u := range w.sortedUnits() {
		c := u.cast
		if c == nil {
			continue
		}
		c.remaining -= dt
		if c.remaining > 0 {
			continue
		}
		u.cast = nil
		w.resolve(u, c.target, c.spellID, w.cfg.Spells[c.spellID])
	}
}

func (w *World) playersAttack(dt time.Duration) {
	amount := int32(int64(w.cfg.PlayerDPS) * int64(dt) / int64(time.Second))
	if amount <= 0 {
		return
	}
	for _, id := range w.alivePlayers() {
		if w.boss.IsDead() || !w.boss.IsSelectable() {
			return
		}
		w.damage(w.units[id], w.boss, amount)
	}
}

func (w *World) despawnIdle(dt time.Duration) {
	for _, u := range w.sortedUnits() {
		if !u.summon || u.inCombat {
			continue
		}
		u.idle += dt
		if u.idle >= u.despawn {
			w.remove(u)
			if ai.IsDebugEnabled() {
				slog.Debug("summon despawned", "objectID", u.ObjectID(), "name", u.Name())
			}
		}
	}
}

// settle handles boss evade and ends the fight.
func (w *World) settle() {
	if w.Done() {
		return
	}
	if len(w.alivePlayers()) == 0 {
		w.outcome = OutcomeWipe
		w.boss.evading = w.boss.inCombat || w.boss.evading
	}
	if w.boss.evading {
		w.evade(w.boss)
	}
}

// evade resets the boss to full health out of combat and despawns summons.
func (w *World) evade(boss *unit) {
	boss.evading = false
	boss.inCombat = false
	boss.cast = nil
	boss.ClearTarget()
	boss.AggroList().Clear()
	boss.SetCurrentHP(boss.MaxHP())
	for _, u := range w.sortedUnits() {
		if u.summon {
			w.remove(u)
		}
	}
	boss.ctrl.OnReset()
	slog.Info("boss evaded", "boss", boss.Name(), "elapsed", w.elapsed)
}
