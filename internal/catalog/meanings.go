package catalog

import (
	"fmt"

	"github.com/kalambet/tarotd/internal/random"
)

// cardText holds the curated meanings for cards we know by name.
type cardText struct {
	upright  string
	reversed string
}

// knownMeanings covers the major arcana cards the app ships texts for.
// Cards outside this table fall back to the generic phrase pools.
var knownMeanings = map[string]cardText{
	"The Fool":           {"Beginnings, spontaneity, a free spirit", "Recklessness, risk-taking, naivety"},
	"The Magician":       {"Willpower, skill, focused intent", "Deception, manipulation, untapped talent"},
	"The High Priestess": {"Intuition, mystery, the subconscious", "Hidden motives, a silenced inner voice"},
	"The Empress":        {"Abundance, nature, fertility, beauty", "Dependence, excess, stagnation"},
	"The Emperor":        {"Authority, structure, control, stability", "Tyranny, rigidity, lack of discipline"},
	"The Hierophant":     {"Tradition, spiritual wisdom, conformity", "Dogma, hypocrisy, restriction"},
	"The Lovers":         {"Love, harmony, partnership, choices", "Disharmony, conflict, a poor choice"},
	"The Chariot":        {"Victory, willpower, forward motion", "Loss of control, opposition, standstill"},
	"Strength":           {"Courage, compassion, inner strength, patience", "Self-doubt, weakness, raw emotion"},
	"The Hermit":         {"Reflection, solitude, the search for truth", "Isolation, withdrawal, rejected guidance"},
}

var genericUpright = []string{
	"A positive turn in the situation",
	"New opportunities opening up",
	"Harmony and balance",
	"Success in new undertakings",
	"Spiritual growth",
	"Renewed energy and confidence",
	"Support from those around you",
	"Clarity after a period of doubt",
}

var genericReversed = []string{
	"Obstacles along the way",
	"A need to rethink your plans",
	"Inner doubts",
	"Temporary difficulties",
	"A lesson that must be learned",
	"Delays outside your control",
	"Energy spent in the wrong place",
	"A warning against haste",
}

// meaningsFor returns upright and reversed texts for a card. Known cards get
// their curated texts; everything else gets a random generic phrase per
// orientation.
func meaningsFor(rng random.Source, name string) (upright, reversed string) {
	if t, ok := knownMeanings[name]; ok {
		return t.upright, t.reversed
	}
	return random.Pick(rng, genericUpright), random.Pick(rng, genericReversed)
}

// demoDeck returns the fixed ten-card deck used when no card index is
// available. External refs are synthetic placeholders; clients that resolve
// refs to artwork simply get no image in demo mode.
func demoDeck() []Card {
	names := []string{
		"The Fool",
		"The Magician",
		"The High Priestess",
		"The Empress",
		"The Emperor",
		"The Hierophant",
		"The Lovers",
		"The Chariot",
		"Strength",
		"The Hermit",
	}

	cards := make([]Card, len(names))
	for i, name := range names {
		t := knownMeanings[name]
		cards[i] = Card{
			ID:              i,
			Name:            name,
			ExternalRef:     fmt.Sprintf("demo-card-%02d", i),
			MeaningUpright:  t.upright,
			MeaningReversed: t.reversed,
		}
	}
	return cards
}
