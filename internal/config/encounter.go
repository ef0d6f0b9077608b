package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/udisondev/zgscript/internal/model"
)

// ActionTiming is the first-use and repeat delay of one boss action.
type ActionTiming struct {
	First  Range `yaml:"first"`
	Repeat Range `yaml:"repeat"`
}

// JeklikSpells are ability ids used by the boss. Opaque to the scripts.
type JeklikSpells struct {
	Charge         int32 `yaml:"charge"`
	SonicBurst     int32 `yaml:"sonic_burst"`
	Screech        int32 `yaml:"screech"`
	ShadowWordPain int32 `yaml:"shadow_word_pain"`
	MindFlay       int32 `yaml:"mind_flay"`
	ChainMindFlay  int32 `yaml:"chain_mind_flay"`
	GreaterHeal    int32 `yaml:"greater_heal"`
	BatForm        int32 `yaml:"bat_form"`
}

// JeklikText are dialogue line ids.
type JeklikText struct {
	Aggro    int32 `yaml:"aggro"`
	RainFire int32 `yaml:"rain_fire"` // said on landing in phase two
	Death    int32 `yaml:"death"`
}

// JeklikTimings holds every action's timers.
type JeklikTimings struct {
	Charge          ActionTiming `yaml:"charge"`
	SonicBurst      ActionTiming `yaml:"sonic_burst"`
	Screech         ActionTiming `yaml:"screech"`
	SpawnBats       ActionTiming `yaml:"spawn_bats"`
	ShadowWordPain  ActionTiming `yaml:"shadow_word_pain"`
	MindFlay        ActionTiming `yaml:"mind_flay"`
	ChainMindFlay   ActionTiming `yaml:"chain_mind_flay"`
	GreaterHeal     ActionTiming `yaml:"greater_heal"`
	SpawnFlyingBats ActionTiming `yaml:"spawn_flying_bats"`
}

// BatWave is the phase-one ground bat summon.
type BatWave struct {
	TemplateID int32            `yaml:"template_id"`
	Positions  []model.Location `yaml:"positions"`
	Despawn    time.Duration    `yaml:"despawn"`
}

// FlyingBat is the phase-two single bat summoned above a player.
type FlyingBat struct {
	TemplateID   int32         `yaml:"template_id"`
	HeightOffset int32         `yaml:"height_offset"`
	Despawn      time.Duration `yaml:"despawn"`
}

// Jeklik is the tuning of the High Priestess Jeklik encounter.
type Jeklik struct {
	Name           string        `yaml:"name"`
	TemplateID     int32         `yaml:"template_id"`
	PhaseTwoHealth float64       `yaml:"phase_two_health"`
	Spells         JeklikSpells  `yaml:"spells"`
	Text           JeklikText    `yaml:"text"`
	Timings        JeklikTimings `yaml:"timings"`
	Bats           BatWave       `yaml:"bats"`
	FlyingBat      FlyingBat     `yaml:"flying_bat"`
}

// Batrider is the tuning of the Frenzied Bat summoned in phase two.
type Batrider struct {
	TemplateID int32         `yaml:"template_id"`
	BombSpell  int32         `yaml:"bomb_spell"`
	FirstBomb  time.Duration `yaml:"first_bomb"`
	Interval   time.Duration `yaml:"interval"`
}

// Encounter holds the tuning of every script in the encounter.
type Encounter struct {
	Jeklik   Jeklik   `yaml:"jeklik"`
	Batrider Batrider `yaml:"batrider"`
}

// DefaultEncounter returns the stock Zul'Gurub tuning.
func DefaultEncounter() Encounter {
	batSpot := model.NewLocation(-12292, -1380, 145, 5483)

	return Encounter{
		Jeklik: Jeklik{
			Name:           "High Priestess Jeklik",
			TemplateID:     14517,
			PhaseTwoHealth: 0.5,
			Spells: JeklikSpells{
				Charge:         22911,
				SonicBurst:     23918,
				Screech:        6605,
				ShadowWordPain: 23952,
				MindFlay:       23953,
				ChainMindFlay:  26044, // placeholder id carried over from the source data
				GreaterHeal:    23954,
				BatForm:        23966,
			},
			Text: JeklikText{Aggro: 0, RainFire: 1, Death: 2},
			Timings: JeklikTimings{
				Charge:          ActionTiming{First: Fixed(20 * time.Second), Repeat: Range{15 * time.Second, 30 * time.Second}},
				SonicBurst:      ActionTiming{First: Fixed(8 * time.Second), Repeat: Range{8 * time.Second, 13 * time.Second}},
				Screech:         ActionTiming{First: Fixed(13 * time.Second), Repeat: Range{18 * time.Second, 26 * time.Second}},
				SpawnBats:       ActionTiming{First: Fixed(60 * time.Second), Repeat: Fixed(60 * time.Second)},
				ShadowWordPain:  ActionTiming{First: Fixed(6 * time.Second), Repeat: Range{12 * time.Second, 18 * time.Second}},
				MindFlay:        ActionTiming{First: Fixed(11 * time.Second), Repeat: Fixed(16 * time.Second)},
				ChainMindFlay:   ActionTiming{First: Fixed(26 * time.Second), Repeat: Range{15 * time.Second, 30 * time.Second}},
				GreaterHeal:     ActionTiming{First: Fixed(50 * time.Second), Repeat: Range{25 * time.Second, 35 * time.Second}},
				SpawnFlyingBats: ActionTiming{First: Fixed(10 * time.Second), Repeat: Range{10 * time.Second, 15 * time.Second}},
			},
			Bats: BatWave{
				TemplateID: 11368,
				Positions: []model.Location{
					batSpot,
					batSpot.Offset(2, 0, 0),
					batSpot.Offset(-2, 0, 0),
					batSpot,
					batSpot.Offset(2, 0, 0),
					batSpot.Offset(-2, 0, 0),
				},
				Despawn: 15 * time.Second,
			},
			FlyingBat: FlyingBat{
				TemplateID:   14965,
				HeightOffset: 15,
				Despawn:      15 * time.Second,
			},
		},
		Batrider: Batrider{
			TemplateID: 14965,
			BombSpell:  40332, // placeholder id carried over from the source data
			FirstBomb:  2 * time.Second,
			Interval:   5 * time.Second,
		},
	}
}

// Validate checks ranges and ids.
func (e Encounter) Validate() error {
	j := e.Jeklik
	if j.TemplateID <= 0 {
		return errors.New("jeklik: template_id must be positive")
	}
	if j.PhaseTwoHealth <= 0 || j.PhaseTwoHealth >= 1 {
		return fmt.Errorf("jeklik: phase_two_health %v outside (0, 1)", j.PhaseTwoHealth)
	}
	if len(j.Bats.Positions) == 0 {
		return errors.New("jeklik: bats.positions is empty")
	}

	timings := map[string]ActionTiming{
		"charge":            j.Timings.Charge,
		"sonic_burst":       j.Timings.SonicBurst,
		"screech":           j.Timings.Screech,
		"spawn_bats":        j.Timings.SpawnBats,
		"shadow_word_pain":  j.Timings.ShadowWordPain,
		"mind_flay":         j.Timings.MindFlay,
		"chain_mind_flay":   j.Timings.ChainMindFlay,
		"greater_heal":      j.Timings.GreaterHeal,
		"spawn_flying_bats": j.Timings.SpawnFlyingBats,
	}
	for name, t := range timings {
		if err := t.First.validate("jeklik: " + name + ".first"); err != nil {
			return err
		}
		if err := t.Repeat.validate("jeklik: " + name + ".repeat"); err != nil {
			return err
		}
		if t.Repeat.Min <= 0 {
			return fmt.Errorf("jeklik: %s.repeat: min must be positive, got %v", name, t.Repeat.Min)
		}
	}

	b := e.Batrider
	if b.TemplateID <= 0 {
		return errors.New("batrider: template_id must be positive")
	}
	if b.FirstBomb < 0 || b.Interval <= 0 {
		return fmt.Errorf("batrider: bad timers first=%v interval=%v", b.FirstBomb, b.Interval)
	}
	return nil
}

// LoadEncounter loads encounter tuning from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func LoadEncounter(path string) (Encounter, error) {
	cfg := DefaultEncounter()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
