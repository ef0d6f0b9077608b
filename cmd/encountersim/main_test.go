package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/game/raid"
	"github.com/udisondev/zgscript/internal/model"
	"github.com/udisondev/zgscript/internal/sim"
	"github.com/udisondev/zgscript/internal/testutil"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestLoadSimulator_Defaults(t *testing.T) {
	v := newViper()
	newRunCmd(v)

	cfg, err := loadSimulator(v)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSimulator().Players, cfg.Players)
	assert.Equal(t, config.DefaultSimulator().PlayerDPS, cfg.PlayerDPS)
}

func TestLoadSimulator_FlagOverrides(t *testing.T) {
	v := newViper()
	cmd := newRunCmd(v)
	require.NoError(t, cmd.Flags().Set("players", "3"))
	require.NoError(t, cmd.Flags().Set("dps", "900"))
	require.NoError(t, cmd.Flags().Set("duration", "90s"))
	require.NoError(t, cmd.Flags().Set("step", "50ms"))
	require.NoError(t, cmd.Flags().Set("seed", "42"))

	cfg, err := loadSimulator(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Players)
	assert.Equal(t, int32(900), cfg.PlayerDPS)
	assert.Equal(t, 90*time.Second, cfg.Duration)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, uint64(42), cfg.Seed)
}

func TestLoadSimulator_EnvOverride(t *testing.T) {
	t.Setenv("ZGSCRIPT_PLAYERS", "4")
	t.Setenv("ZGSCRIPT_LOG_LEVEL", "debug")

	v := newViper()
	newRunCmd(v)

	cfg, err := loadSimulator(v)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Players)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadSimulator_ConfigFileAndFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("players: 6\nplayer_dps: 120\n"), 0o644))

	v := newViper()
	cmd := newRunCmd(v)
	v.Set("config", path)
	require.NoError(t, cmd.Flags().Set("dps", "700"))

	cfg, err := loadSimulator(v)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Players)
	assert.Equal(t, int32(700), cfg.PlayerDPS, "flag wins over file")
}

func TestLoadSimulator_Invalid(t *testing.T) {
	v := newViper()
	cmd := newRunCmd(v)
	require.NoError(t, cmd.Flags().Set("players", "-1"))

	_, err := loadSimulator(v)
	require.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	enc := config.DefaultEncounter()
	res := sim.Result{
		Outcome:      sim.OutcomeKill,
		Elapsed:      95 * time.Second,
		Phase:        2,
		PlayersAlive: 9,
		Stats: sim.Stats{
			Casts: map[int32]int{
				enc.Jeklik.Spells.MindFlay: 3,
				enc.Batrider.BombSpell:     2,
				99999:                      1,
			},
			Summons: map[int32]int{enc.Jeklik.Bats.TemplateID: 6},
		},
	}
	row := raid.EncounterRow{Name: "jeklik", State: int16(model.EncounterDone), Attempts: 1, Kills: 1}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, res, row, enc))

	out := buf.String()
	assert.Contains(t, out, "High Priestess Jeklik")
	assert.Contains(t, out, "KILL")
	assert.Contains(t, out, "1m35s")
	assert.Contains(t, out, "DONE (attempts 1, kills 1)")
	assert.Contains(t, out, "mind flay")
	assert.Contains(t, out, "throw liquid fire")
	assert.Contains(t, out, "spell 99999")
	assert.Contains(t, out, "npc 11368")
}

func TestRunCommand_InMemory(t *testing.T) {
	if testing.Short() {
		t.Skip("runs a full fight")
	}
	t.Setenv("ZGSCRIPT_DSN", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--players", "10", "--dps", "5000", "--duration", "2m", "--log-level", "error"})

	require.NoError(t, root.ExecuteContext(testutil.ContextWithTimeout(t, 30*time.Second)))

	assert.Contains(t, out.String(), "KILL")
	assert.Contains(t, out.String(), "DONE (attempts 1, kills 1)")
}

func TestRunCommand_WatchNeedsConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--watch", "--log-level", "error"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch needs --config")
}
