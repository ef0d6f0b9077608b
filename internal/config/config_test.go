package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultEncounter_Valid(t *testing.T) {
	cfg := DefaultEncounter()
	require.NoError(t, cfg.Validate())

	j := cfg.Jeklik
	assert.Equal(t, 0.5, j.PhaseTwoHealth)
	assert.Equal(t, Fixed(20*time.Second), j.Timings.Charge.First)
	assert.Equal(t, Range{Min: 15 * time.Second, Max: 30 * time.Second}, j.Timings.Charge.Repeat)
	assert.Equal(t, Fixed(16*time.Second), j.Timings.MindFlay.Repeat)
	assert.Equal(t, Fixed(60*time.Second), j.Timings.SpawnBats.Repeat)
	assert.Len(t, j.Bats.Positions, 6)
	assert.Equal(t, int32(15), j.FlyingBat.HeightOffset)

	b := cfg.Batrider
	assert.Equal(t, int32(40332), b.BombSpell)
	assert.Equal(t, 2*time.Second, b.FirstBomb)
	assert.Equal(t, 5*time.Second, b.Interval)
}

func TestLoadEncounter_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadEncounter(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEncounter(), cfg)
}

func TestLoadEncounter_OverridesFields(t *testing.T) {
	path := writeFile(t, t.TempDir(), "zg.yaml", `
jeklik:
  phase_two_health: 0.4
  timings:
    charge:
      first: {min: 5s, max: 5s}
      repeat: {min: 10s, max: 12s}
  bats:
    positions:
      - {x: 1, y: 2, z: 3}
batrider:
  interval: 7s
`)

	cfg, err := LoadEncounter(path)
	require.NoError(t, err)

	assert.Equal(t, 0.4, cfg.Jeklik.PhaseTwoHealth)
	assert.Equal(t, Fixed(5*time.Second), cfg.Jeklik.Timings.Charge.First)
	assert.Equal(t, Range{Min: 10 * time.Second, Max: 12 * time.Second}, cfg.Jeklik.Timings.Charge.Repeat)
	require.Len(t, cfg.Jeklik.Bats.Positions, 1)
	assert.Equal(t, int32(3), cfg.Jeklik.Bats.Positions[0].Z)
	assert.Equal(t, 7*time.Second, cfg.Batrider.Interval)
	// untouched keys keep their defaults
	assert.Equal(t, 2*time.Second, cfg.Batrider.FirstBomb)
	assert.Equal(t, DefaultEncounter().Jeklik.Timings.Screech, cfg.Jeklik.Timings.Screech)
}

func TestLoadEncounter_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "jeklik: [unclosed"},
		{"threshold at one", "jeklik:\n  phase_two_health: 1\n"},
		{"inverted range", "jeklik:\n  timings:\n    screech:\n      repeat: {min: 30s, max: 10s}\n"},
		{"zero interval", "batrider:\n  interval: 0s\n"},
		{"zero repeat", "jeklik:\n  timings:\n    sonic_burst:\n      repeat: {min: 0s, max: 0s}\n"},
		{"repeat may draw zero", "jeklik:\n  timings:\n    charge:\n      repeat: {min: 0s, max: 5s}\n"},
		{"no bat positions", "jeklik:\n  bats:\n    positions: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "zg.yaml", tt.body)
			_, err := LoadEncounter(path)
			assert.Error(t, err)
		})
	}
}

func TestEncounter_ValidateRejectsZeroRepeat(t *testing.T) {
	cfg := DefaultEncounter()
	cfg.Jeklik.Timings.SonicBurst.Repeat = Range{}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sonic_burst.repeat")
}

func TestLoadSimulator(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sim.yaml", `
players: 5
tick_interval: 50ms
database:
  host: db.local
spells:
  23953: {cast_time: 1s, damage: 10}
`)

	cfg, err := LoadSimulator(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Players)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "postgres://zgscript:@db.local:5432/zgscript?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, SpellEffect{CastTime: time.Second, Damage: 10}, cfg.Spells[23953])
}

func TestLoadSimulator_SharesFileWithEncounter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "all.yaml", "players: 3\nbatrider:\n  interval: 4s\n")

	sim, err := LoadSimulator(path)
	require.NoError(t, err)
	enc, err := LoadEncounter(path)
	require.NoError(t, err)

	assert.Equal(t, 3, sim.Players)
	assert.Equal(t, 4*time.Second, enc.Batrider.Interval)
}

func TestSimulator_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Simulator)
	}{
		{"zero tick", func(s *Simulator) { s.TickInterval = 0 }},
		{"zero duration", func(s *Simulator) { s.Duration = 0 }},
		{"no players", func(s *Simulator) { s.Players = 0 }},
		{"no boss hp", func(s *Simulator) { s.BossHP = 0 }},
		{"negative dps", func(s *Simulator) { s.PlayerDPS = -1 }},
		{"zero swing", func(s *Simulator) { s.MeleeSwing = 0 }},
	}

	require.NoError(t, DefaultSimulator().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimulator()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
