package zulgurub

import (
	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/config"
)

// NewBatriderScript builds the Frenzied Bat behavior: a bomb on a random
// player at FirstBomb, then every Interval. The bat can't be selected.
func NewBatriderScript(cfg config.Batrider) *ai.RepeatingScript {
	return &ai.RepeatingScript{
		Name:     "batrider",
		First:    cfg.FirstBomb,
		Interval: cfg.Interval,
		Run: func(h ai.Host) {
			if target, ok := h.SelectTarget(ai.TargetRandom); ok {
				h.Cast(target, cfg.BombSpell)
			}
		},
		Reset: func(h ai.Host) {
			h.SetSelectable(false)
		},
	}
}
