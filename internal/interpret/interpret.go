// Package interpret turns a drawn spread into a human-readable narrative.
// The text is assembled section by section (header, per-card, aggregate,
// advice) so each section stays independently testable.
//
// No external interpretation engine is consulted here; an AI-backed
// generator is a future collaborator behind the same entry point.
package interpret

import (
	"fmt"
	"strings"

	"github.com/kalambet/tarotd/internal/random"
	"github.com/kalambet/tarotd/internal/reading"
)

// positionLabels name the first five spread positions. Larger spreads cycle
// to generic "Position N" labels.
var positionLabels = []string{
	"Situation",
	"Challenge",
	"Advice",
	"External influence",
	"Outcome",
}

var adviceLines = []string{
	"The cards point to important changes in your life. Be ready for new opportunities.",
	"This spread calls for inner work. Set aside time for honest self-reflection.",
	"Events are unfolding in your favor. Trust your intuition and keep moving forward.",
	"The cards counsel patience. The best results arrive in their own time.",
	"This spread speaks of balance. Look for harmony between the different parts of your life.",
	"Pay attention to the people close to you. An answer may come through someone else's words.",
}

const (
	header   = "🔮 Tarot Reading"
	flourish = "🌟 Remember: the cards show the path, but every step is yours to take."
)

// Generator renders spread narratives. The random source only picks the
// closing advice line; everything else is a pure function of the input.
type Generator struct {
	rng random.Source
}

func New(rng random.Source) *Generator {
	return &Generator{rng: rng}
}

// Interpret renders the full narrative for a spread.
func (g *Generator) Interpret(cards []reading.DrawnCard, question string) string {
	var sb strings.Builder

	sb.WriteString(header)
	sb.WriteString("\n\n")

	if question = strings.TrimSpace(question); question != "" {
		fmt.Fprintf(&sb, "Your question: %q\n\n", question)
	}

	upright := 0
	for i, card := range cards {
		sb.WriteString(cardSection(card, i))
		sb.WriteString("\n")
		if card.Orientation == reading.Upright {
			upright++
		}
	}

	sb.WriteString("\n✨ Overall:\n")
	sb.WriteString(aggregateSection(upright, len(cards)))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Advice: %s\n\n", random.Pick(g.rng, adviceLines))
	sb.WriteString(flourish)

	return sb.String()
}

// cardSection renders one card with its positional label, orientation icon,
// and meaning.
func cardSection(card reading.DrawnCard, index int) string {
	return fmt.Sprintf("%d. %s — %s %s\n   %s\n",
		index+1, positionLabel(index), card.Name, orientationIcon(card.Orientation), card.Meaning)
}

func positionLabel(index int) string {
	if index < len(positionLabels) {
		return positionLabels[index]
	}
	return fmt.Sprintf("Position %d", index+1)
}

func orientationIcon(o reading.Orientation) string {
	if o == reading.Reversed {
		return "🔽 reversed"
	}
	return "🔼 upright"
}

// aggregateSection words the overall tendency of the spread. Exactly half
// upright counts as favorable (non-strict comparison).
func aggregateSection(upright, total int) string {
	switch {
	case total > 0 && upright == total:
		return "Every card fell upright — a remarkably favorable spread. The way ahead is open; act with confidence."
	case upright*2 >= total:
		return "The spread leans favorable. Keep moving in your chosen direction, and stay attentive to the details."
	default:
		return "The spread urges caution. Consider revisiting your plans or waiting for a better moment."
	}
}
