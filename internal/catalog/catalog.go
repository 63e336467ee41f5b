// Package catalog holds the fixed in-memory deck of tarot cards available
// for drawing. The deck is built once at startup and shared read-only by all
// requests.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/kalambet/tarotd/internal/random"
)

// Card is one catalog entry. Immutable after load.
type Card struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	ExternalRef     string `json:"external_ref"`
	MeaningUpright  string `json:"meaning_upright"`
	MeaningReversed string `json:"meaning_reversed"`
}

// Catalog is the loaded deck.
type Catalog struct {
	cards []Card
}

// Load builds the catalog from the first candidate path holding a valid
// name→external_ref JSON mapping. When no path yields a usable index the
// built-in demo deck is returned instead; a missing index is a degraded mode,
// not a startup failure.
//
// Generic meanings are picked at load time, so two loads may assign a card
// different generic text.
func Load(rng random.Source, paths ...string) *Catalog {
	for _, path := range paths {
		cards, err := loadIndex(rng, path)
		if err != nil {
			slog.Debug("card index not usable", "path", path, "error", err)
			continue
		}
		slog.Info("card catalog loaded", "path", path, "cards", len(cards))
		return &Catalog{cards: cards}
	}

	slog.Warn("no card index found, using built-in demo deck", "paths", paths)
	return &Catalog{cards: demoDeck()}
}

func loadIndex(rng random.Source, path string) ([]Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var refs map[string]string
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("parsing card index: %w", err)
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("card index %s is empty", path)
	}

	// Map iteration order is random in Go; sort names so ids are stable
	// across loads of the same index.
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)

	cards := make([]Card, len(names))
	for i, name := range names {
		upright, reversed := meaningsFor(rng, name)
		cards[i] = Card{
			ID:              i,
			Name:            name,
			ExternalRef:     refs[name],
			MeaningUpright:  upright,
			MeaningReversed: reversed,
		}
	}
	return cards, nil
}

// Cards returns the full deck in id order.
func (c *Catalog) Cards() []Card {
	return c.cards
}

// Len returns the deck size.
func (c *Catalog) Len() int {
	return len(c.cards)
}
