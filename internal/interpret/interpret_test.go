package interpret

import (
	"strings"
	"testing"

	"github.com/kalambet/tarotd/internal/random"
	"github.com/kalambet/tarotd/internal/reading"
)

func spread(orientations ...reading.Orientation) []reading.DrawnCard {
	cards := make([]reading.DrawnCard, len(orientations))
	for i, o := range orientations {
		meaning := "steady progress"
		if o == reading.Reversed {
			meaning = "hidden obstacles"
		}
		cards[i] = reading.DrawnCard{
			ID:          i,
			Name:        "Card " + string(rune('A'+i)),
			Orientation: o,
			Meaning:     meaning,
			Position:    i + 1,
		}
	}
	return cards
}

func TestAggregateAllUpright(t *testing.T) {
	got := aggregateSection(5, 5)
	if !strings.Contains(got, "remarkably favorable") {
		t.Errorf("all-upright wording missing, got %q", got)
	}
}

func TestAggregateAllReversed(t *testing.T) {
	got := aggregateSection(0, 5)
	if !strings.Contains(got, "urges caution") {
		t.Errorf("cautionary wording missing, got %q", got)
	}
}

// TestAggregateExactlyHalf pins the non-strict boundary: 2 upright of 4 is
// favorable, not cautionary.
func TestAggregateExactlyHalf(t *testing.T) {
	got := aggregateSection(2, 4)
	if !strings.Contains(got, "leans favorable") {
		t.Errorf("half-upright should be favorable, got %q", got)
	}
	if strings.Contains(got, "urges caution") {
		t.Errorf("half-upright must not be cautionary, got %q", got)
	}
}

func TestAggregateJustUnderHalf(t *testing.T) {
	got := aggregateSection(2, 5)
	if !strings.Contains(got, "urges caution") {
		t.Errorf("2 of 5 upright should be cautionary, got %q", got)
	}
}

func TestPositionLabels(t *testing.T) {
	want := []string{"Situation", "Challenge", "Advice", "External influence", "Outcome", "Position 6", "Position 7"}
	for i, w := range want {
		if got := positionLabel(i); got != w {
			t.Errorf("positionLabel(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestCardSection(t *testing.T) {
	card := reading.DrawnCard{Name: "The Fool", Orientation: reading.Reversed, Meaning: "Recklessness", Position: 1}
	got := cardSection(card, 0)

	for _, want := range []string{"1.", "Situation", "The Fool", "🔽 reversed", "Recklessness"} {
		if !strings.Contains(got, want) {
			t.Errorf("card section missing %q:\n%s", want, got)
		}
	}
}

func TestInterpretFullNarrative(t *testing.T) {
	g := New(random.NewSeeded(4))
	cards := spread(reading.Upright, reading.Upright, reading.Reversed)

	got := g.Interpret(cards, "Should I take the job?")

	for _, want := range []string{
		header,
		`Your question: "Should I take the job?"`,
		"1. Situation",
		"2. Challenge",
		"3. Advice",
		"✨ Overall:",
		"leans favorable",
		"Advice: ",
		flourish,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("narrative missing %q:\n%s", want, got)
		}
	}
}

func TestInterpretOmitsEmptyQuestion(t *testing.T) {
	g := New(random.NewSeeded(4))

	got := g.Interpret(spread(reading.Upright), "   ")
	if strings.Contains(got, "Your question") {
		t.Errorf("empty question should be omitted:\n%s", got)
	}
}

func TestInterpretAdviceComesFromFixedList(t *testing.T) {
	g := New(random.NewSeeded(11))

	got := g.Interpret(spread(reading.Reversed, reading.Reversed), "What is in my way?")

	found := false
	for _, line := range adviceLines {
		if strings.Contains(got, line) {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no known advice line in narrative:\n%s", got)
	}
}

func TestInterpretAllReversedNarrative(t *testing.T) {
	g := New(random.NewSeeded(2))
	cards := spread(reading.Reversed, reading.Reversed, reading.Reversed, reading.Reversed, reading.Reversed)

	got := g.Interpret(cards, "Why does everything go wrong?")
	if !strings.Contains(got, "urges caution") {
		t.Errorf("all-reversed spread should carry cautionary wording:\n%s", got)
	}
}
