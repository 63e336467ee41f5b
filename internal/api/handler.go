// Package api is the HTTP surface: thin translators between JSON requests
// and the catalog, reading engine, interpretation generator, and history
// store.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/kalambet/tarotd/internal/catalog"
	"github.com/kalambet/tarotd/internal/interpret"
	"github.com/kalambet/tarotd/internal/reading"
	"github.com/kalambet/tarotd/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

const defaultDrawCount = 5

// cardListLimit caps the /api/cards listing.
const cardListLimit = 20

type Deps struct {
	Catalog      *catalog.Catalog
	Engine       *reading.Engine
	Interpreter  *interpret.Generator
	Store        *storage.Store
	HistoryLimit int
	// AllowedOrigins for CORS; empty means allow all.
	AllowedOrigins []string
	// RateLimit is requests/minute per IP on /api; 0 disables.
	RateLimit int
}

// NewHandler builds the router with all routes and middleware attached.
func NewHandler(deps Deps) http.Handler {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 50
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(recoverPanics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", handleRoot(deps))

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimit > 0 {
			r.Use(httprate.LimitByIP(deps.RateLimit, time.Minute))
		}

		r.Get("/health", handleHealth(deps))
		r.Get("/cards", handleListCards(deps))
		r.Post("/draw-cards", handleDrawCards(deps))
		r.Post("/interpret", handleInterpret(deps))
		r.Post("/save-reading", handleSaveReading(deps))
		r.Get("/history", handleHistory(deps))
	})

	return r
}

func handleRoot(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "Tarot API is running",
			"cards_count": deps.Catalog.Len(),
		})
	}
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          "ok",
			"service":         "tarotd",
			"cards_available": deps.Catalog.Len(),
			"timestamp":       time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handleListCards(deps Deps) http.HandlerFunc {
	type cardSummary struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		all := deps.Catalog.Cards()
		summaries := make([]cardSummary, 0, cardListLimit)
		for _, c := range all {
			if len(summaries) == cardListLimit {
				break
			}
			summaries = append(summaries, cardSummary{ID: c.ID, Name: c.Name})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"total_cards": len(all),
			"cards":       summaries,
		})
	}
}

type drawRequest struct {
	Question string `json:"question"`
	Count    *int   `json:"count"`
	UserID   int64  `json:"user_id"`
}

func handleDrawCards(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req drawRequest
		if !decodeBody(w, r, &req) {
			return
		}

		count := defaultDrawCount
		if req.Count != nil {
			count = *req.Count
		}

		res, err := deps.Engine.Draw(req.Question, count)
		if errors.Is(err, reading.ErrQuestionTooShort) {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to draw cards: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":     true,
			"reading_id":  res.ReadingID,
			"cards":       res.Cards,
			"question":    res.Question,
			"cards_count": len(res.Cards),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type interpretRequest struct {
	Cards    []reading.DrawnCard `json:"cards" validate:"required,min=1"`
	Question string              `json:"question"`
}

func handleInterpret(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req interpretRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validateStruct(req); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		text := deps.Interpreter.Interpret(req.Cards, req.Question)

		writeJSON(w, http.StatusOK, map[string]any{
			"success":        true,
			"interpretation": text,
			"cards_count":    len(req.Cards),
			"question":       req.Question,
		})
	}
}

type saveRequest struct {
	UserID         int64             `json:"user_id" validate:"required"`
	Question       string            `json:"question" validate:"required"`
	Cards          []json.RawMessage `json:"cards" validate:"required,min=1"`
	Interpretation string            `json:"interpretation"`
}

func handleSaveReading(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validateStruct(req); err != nil {
			httpError(w, http.StatusBadRequest, "%v", err)
			return
		}

		cardsJSON, err := json.Marshal(req.Cards)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to serialize cards: %v", err)
			return
		}

		id, err := deps.Store.SaveReading(req.UserID, req.Question, string(cardsJSON), req.Interpretation)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to save reading: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"message":    "Reading saved",
			"reading_id": id,
			"saved_at":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handleHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("user_id")
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpError(w, http.StatusBadRequest, "user_id must be an integer")
			return
		}

		history, err := deps.Store.History(userID, deps.HistoryLimit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "failed to load history: %v", err)
			return
		}
		if history == nil {
			history = []storage.Reading{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"history": history,
			"count":   len(history),
		})
	}
}

// decodeBody parses the JSON request body into dst, answering 400 itself on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return false
	}
	return true
}
