package config

import (
	"errors"
	"fmt"
	"time"
)

// SpellEffect describes how the simulator resolves one ability id.
type SpellEffect struct {
	CastTime time.Duration `yaml:"cast_time"`
	Damage   int32         `yaml:"damage"`
	Heal     int32         `yaml:"heal"`
}

// Simulator holds encountersim runtime configuration.
type Simulator struct {
	LogLevel     string                `yaml:"log_level"`
	TickInterval time.Duration         `yaml:"tick_interval"`
	Duration     time.Duration         `yaml:"duration"`
	Seed         uint64                `yaml:"seed"`
	Players      int                   `yaml:"players"`
	PlayerHP     int32                 `yaml:"player_hp"`
	BossHP       int32                 `yaml:"boss_hp"`
	PlayerDPS    int32                 `yaml:"player_dps"`
	MeleeDamage  int32                 `yaml:"melee_damage"`
	MeleeSwing   time.Duration         `yaml:"melee_swing"`
	SummonHP     int32                 `yaml:"summon_hp"`
	SummonMelee  int32                 `yaml:"summon_melee"`
	Realtime     bool                  `yaml:"realtime"`
	SaveInterval time.Duration         `yaml:"save_interval"`
	Persist      bool                  `yaml:"persist"`
	Database     DatabaseConfig        `yaml:"database"`
	Spells       map[int32]SpellEffect `yaml:"spells"`
}

// DefaultSimulator returns defaults for a ten-player fight with no database.
func DefaultSimulator() Simulator {
	return Simulator{
		LogLevel:     "info",
		TickInterval: 100 * time.Millisecond,
		Duration:     10 * time.Minute,
		Seed:         1,
		Players:      10,
		PlayerHP:     5000,
		BossHP:       200000,
		PlayerDPS:    300,
		MeleeDamage:  400,
		MeleeSwing:   2 * time.Second,
		SummonHP:     1500,
		SummonMelee:  40,
		SaveInterval: 30 * time.Second,
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "zgscript",
			DBName:  "zgscript",
			SSLMode: "disable",
		},
		Spells: map[int32]SpellEffect{
			22911: {Damage: 300},                                    // charge
			23918: {Damage: 250},                                    // sonic burst
			6605:  {CastTime: 1500 * time.Millisecond, Damage: 200}, // screech
			23952: {Damage: 350},                                    // shadow word: pain
			23953: {CastTime: 3 * time.Second, Damage: 600},         // mind flay
			26044: {CastTime: 2 * time.Second, Damage: 400},         // chain mind flay
			23954: {CastTime: 4 * time.Second, Heal: 20000},         // greater heal
			23966: {},                                               // bat form
			40332: {Damage: 500},                                    // bomb
		},
	}
}

// Validate checks the runtime parameters.
func (s Simulator) Validate() error {
	if s.TickInterval <= 0 {
		return errors.New("tick_interval must be positive")
	}
	if s.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if s.Players <= 0 {
		return fmt.Errorf("players must be positive, got %d", s.Players)
	}
	if s.PlayerHP <= 0 || s.BossHP <= 0 || s.SummonHP <= 0 {
		return errors.New("player_hp, boss_hp and summon_hp must be positive")
	}
	if s.PlayerDPS < 0 || s.MeleeDamage < 0 || s.SummonMelee < 0 {
		return errors.New("player_dps, melee_damage and summon_melee must not be negative")
	}
	if s.MeleeSwing <= 0 {
		return errors.New("melee_swing must be positive")
	}
	return nil
}

// LoadSimulator loads simulator configuration from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
