// Package reading draws cards from the catalog: uniform sampling without
// replacement, an independent coin flip per card for orientation, and a
// timestamp-derived reading ID.
package reading

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kalambet/tarotd/internal/catalog"
	"github.com/kalambet/tarotd/internal/random"
)

// MaxCards is the hard cap on a single draw regardless of the requested
// count or deck size.
const MaxCards = 10

// MinQuestionLen is the minimum question length in runes, after trimming.
const MinQuestionLen = 3

// ErrQuestionTooShort is returned when the trimmed question is shorter than
// MinQuestionLen. Surfaced to clients as a 400.
var ErrQuestionTooShort = fmt.Errorf("question must be at least %d characters", MinQuestionLen)

// Orientation is the upright or reversed state of a drawn card.
type Orientation string

const (
	Upright  Orientation = "upright"
	Reversed Orientation = "reversed"
)

// DrawnCard is one card of a draw. Position is the 1-based sample order,
// which is also the presentation order.
type DrawnCard struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	ExternalRef string      `json:"external_ref"`
	Orientation Orientation `json:"orientation"`
	Meaning     string      `json:"meaning"`
	Position    int         `json:"position"`
}

// Result is a completed draw.
type Result struct {
	ReadingID string
	Question  string
	Cards     []DrawnCard
}

// Engine draws cards from a fixed catalog.
type Engine struct {
	catalog *catalog.Catalog
	rng     random.Source
}

func NewEngine(c *catalog.Catalog, rng random.Source) *Engine {
	return &Engine{catalog: c, rng: rng}
}

// Draw samples count distinct cards. The count is clamped to
// [0, min(MaxCards, deck size)]; the question must survive trimming with at
// least MinQuestionLen runes.
func (e *Engine) Draw(question string, count int) (Result, error) {
	question = strings.TrimSpace(question)
	if utf8.RuneCountInString(question) < MinQuestionLen {
		return Result{}, ErrQuestionTooShort
	}

	if count < 0 {
		count = 0
	}
	if count > MaxCards {
		count = MaxCards
	}
	if count > e.catalog.Len() {
		count = e.catalog.Len()
	}

	deck := e.catalog.Cards()
	order := e.rng.Perm(len(deck))

	cards := make([]DrawnCard, count)
	for i := 0; i < count; i++ {
		card := deck[order[i]]
		orientation := Upright
		meaning := card.MeaningUpright
		if e.rng.IntN(2) == 1 {
			orientation = Reversed
			meaning = card.MeaningReversed
		}
		cards[i] = DrawnCard{
			ID:          card.ID,
			Name:        card.Name,
			ExternalRef: card.ExternalRef,
			Orientation: orientation,
			Meaning:     meaning,
			Position:    i + 1,
		}
	}

	return Result{
		ReadingID: e.newReadingID(),
		Question:  question,
		Cards:     cards,
	}, nil
}

// newReadingID builds a correlation token from the wall clock and a random
// four-digit suffix. Uniqueness is probabilistic; it is not a primary key.
func (e *Engine) newReadingID() string {
	return fmt.Sprintf("%s_%04d", time.Now().Format("20060102150405"), 1000+e.rng.IntN(9000))
}
