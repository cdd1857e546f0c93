package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
)

// buildAlert formats the grouped notification for a cycle's transitions.
// The wording and emoji follow the historical notification layout.
func buildAlert(at time.Time, transitions []logic.Transition) Alert {
	var on, off []string
	for _, tr := range transitions {
		if tr.Direction == logic.TurnedOn {
			on = append(on, tr.Mote)
		} else {
			off = append(off, tr.Mote)
		}
	}

	return Alert{
		At:       at,
		Title:    alertTitle(on, off),
		Body:     alertBody(on, off),
		Expanded: alertExpanded(on, off),
		MotesOn:  on,
		MotesOff: off,
	}
}

// alertTitle names the single mote when only one light changed and falls
// back to a change count otherwise.
func alertTitle(on, off []string) string {
	if len(on)+len(off) == 1 {
		if len(on) == 1 {
			return "💡 Lumière allumée: " + on[0]
		}
		return "🌙 Lumière éteinte: " + off[0]
	}
	return fmt.Sprintf("🔄 %d changements détectés", len(on)+len(off))
}

func alertBody(on, off []string) string {
	var parts []string
	if len(on) > 0 {
		parts = append(parts, "💡 ALLUMÉES: "+strings.Join(on, ", "))
	}
	if len(off) > 0 {
		parts = append(parts, "🌙 ÉTEINTES: "+strings.Join(off, ", "))
	}
	return strings.Join(parts, "\n")
}

func alertExpanded(on, off []string) string {
	var sections []string
	if len(on) > 0 {
		var b strings.Builder
		b.WriteString("💡 LUMIÈRES ALLUMÉES:\n")
		for _, mote := range on {
			b.WriteString("  • " + mote + "\n")
		}
		sections = append(sections, b.String())
	}
	if len(off) > 0 {
		var b strings.Builder
		b.WriteString("🌙 LUMIÈRES ÉTEINTES:\n")
		for _, mote := range off {
			b.WriteString("  • " + mote + "\n")
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n")
}
