package zulgurub

import (
	"fmt"
	"math/rand/v2"

	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/model"
)

// Register binds the Zul'Gurub scripts to their creature templates.
// tuning is read on every spawn, so reloaded tuning applies to the next
// spawned creature. progress receives Jeklik's encounter state and may be nil.
func Register(reg *ai.Registry, tuning func() config.Encounter, rng *rand.Rand, progress ai.ProgressFunc) error {
	cfg := tuning()

	err := reg.Register(cfg.Jeklik.TemplateID, "boss_jeklik", func(h ai.Host) (ai.Controller, error) {
		script, err := NewJeklikScript(tuning().Jeklik)
		if err != nil {
			return nil, err
		}
		boss, err := ai.NewBossAI(h, script, rng)
		if err != nil {
			return nil, err
		}
		if progress != nil {
			boss.SetProgressFunc(func(_ string, state model.EncounterState) {
				progress(EncounterJeklik, state)
			})
		}
		return boss, nil
	})
	if err != nil {
		return fmt.Errorf("registering jeklik: %w", err)
	}

	err = reg.Register(cfg.Batrider.TemplateID, "npc_batrider", func(h ai.Host) (ai.Controller, error) {
		return ai.NewRepeatingAI(h, NewBatriderScript(tuning().Batrider))
	})
	if err != nil {
		return fmt.Errorf("registering batrider: %w", err)
	}

	if cfg.Jeklik.Bats.TemplateID != cfg.Batrider.TemplateID {
		err = reg.Register(cfg.Jeklik.Bats.TemplateID, "npc_bloodseeker_bat", func(h ai.Host) (ai.Controller, error) {
			return ai.NewBasicAI(h), nil
		})
		if err != nil {
			return fmt.Errorf("registering bloodseeker bat: %w", err)
		}
	}
	return nil
}
