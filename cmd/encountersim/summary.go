package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/game/raid"
	"github.com/udisondev/zgscript/internal/model"
	"github.com/udisondev/zgscript/internal/sim"
)

// summaryStyles are bound to the output writer so colors are dropped
// when it is not a terminal.
type summaryStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	kill    lipgloss.Style
	wipe    lipgloss.Style
	neutral lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	r := lipgloss.NewRenderer(w)
	return summaryStyles{
		title:   r.NewStyle().Bold(true),
		section: r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Width(22).PaddingLeft(2),
		kill:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		wipe:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		neutral: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
}

func (s summaryStyles) outcome(o sim.Outcome) string {
	switch o {
	case sim.OutcomeKill:
		return s.kill.Render(o.String())
	case sim.OutcomeWipe:
		return s.wipe.Render(o.String())
	default:
		return s.neutral.Render(o.String())
	}
}

func printSummary(w io.Writer, res sim.Result, progress raid.EncounterRow, enc config.Encounter) error {
	st := newSummaryStyles(w)
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s after %s\n",
		st.title.Render(enc.Jeklik.Name), st.outcome(res.Outcome), res.Elapsed.Round(time.Millisecond))

	row := func(label, value string) {
		b.WriteString(st.label.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	row("phase reached", fmt.Sprintf("%d", res.Phase))
	row("boss health", fmt.Sprintf("%.1f%%", res.BossHealth*100))
	row("players alive", fmt.Sprintf("%d", res.PlayersAlive))
	row("player deaths", fmt.Sprintf("%d", res.Stats.PlayerDeaths))
	row("melee swings", fmt.Sprintf("%d", res.Stats.MeleeSwings))
	row("progress", fmt.Sprintf("%s (attempts %d, kills %d)",
		model.EncounterState(progress.State), progress.Attempts, progress.Kills))

	names := spellNames(enc)
	if len(res.Stats.Casts) > 0 {
		b.WriteString(st.section.Render("Casts"))
		b.WriteByte('\n')
		for _, id := range sortedKeys(res.Stats.Casts) {
			name, ok := names[id]
			if !ok {
				name = fmt.Sprintf("spell %d", id)
			}
			row(name, fmt.Sprintf("%d", res.Stats.Casts[id]))
		}
	}

	if len(res.Stats.Summons) > 0 {
		b.WriteString(st.section.Render("Summons"))
		b.WriteByte('\n')
		for _, id := range sortedKeys(res.Stats.Summons) {
			row(fmt.Sprintf("npc %d", id), fmt.Sprintf("%d", res.Stats.Summons[id]))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func spellNames(enc config.Encounter) map[int32]string {
	sp := enc.Jeklik.Spells
	return map[int32]string{
		sp.Charge:              "charge",
		sp.SonicBurst:          "sonic burst",
		sp.Screech:             "screech",
		sp.ShadowWordPain:      "shadow word pain",
		sp.MindFlay:            "mind flay",
		sp.ChainMindFlay:       "chain mind flay",
		sp.GreaterHeal:         "greater heal",
		sp.BatForm:             "bat form",
		enc.Batrider.BombSpell: "throw liquid fire",
	}
}

func sortedKeys(m map[int32]int) []int32 {
	keys := make([]int32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
