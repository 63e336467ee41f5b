package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kalambet/tarotd/internal/catalog"
	"github.com/kalambet/tarotd/internal/interpret"
	"github.com/kalambet/tarotd/internal/random"
	"github.com/kalambet/tarotd/internal/reading"
	"github.com/kalambet/tarotd/internal/storage"
)

// setupHandler wires the full stack onto the demo deck and an in-memory
// store. Rate limiting stays off unless a test opts in.
func setupHandler(t *testing.T, rateLimit int) http.Handler {
	t.Helper()

	rng := random.NewSeeded(42)
	cat := catalog.Load(rng, filepath.Join(t.TempDir(), "missing.json"))

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewHandler(Deps{
		Catalog:      cat,
		Engine:       reading.NewEngine(cat, rng),
		Interpreter:  interpret.New(rng),
		Store:        store,
		HistoryLimit: 50,
		RateLimit:    rateLimit,
	})
}

func doJSON(t *testing.T, h http.Handler, method, url, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp map[string]any
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rr.Body.String())
		}
	}
	return rr, resp
}

func TestRoot(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp["cards_count"] != float64(10) {
		t.Errorf("cards_count = %v, want 10", resp["cards_count"])
	}
}

func TestHealth(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodGet, "/api/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp["status"] != "ok" || resp["service"] != "tarotd" {
		t.Errorf("unexpected health payload: %v", resp)
	}
	if resp["cards_available"] != float64(10) {
		t.Errorf("cards_available = %v", resp["cards_available"])
	}
	if resp["timestamp"] == "" {
		t.Error("timestamp missing")
	}
}

func TestListCards(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodGet, "/api/cards", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp["success"] != true || resp["total_cards"] != float64(10) {
		t.Errorf("unexpected payload: %v", resp)
	}
	cards, ok := resp["cards"].([]any)
	if !ok || len(cards) != 10 {
		t.Fatalf("cards = %v", resp["cards"])
	}
	first := cards[0].(map[string]any)
	if first["name"] == "" {
		t.Errorf("card summary missing name: %v", first)
	}
}

func TestDrawCards(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodPost, "/api/draw-cards",
		`{"question":"What awaits me this year?","count":5,"user_id":42}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %v", rr.Code, resp)
	}
	if resp["success"] != true {
		t.Errorf("success = %v", resp["success"])
	}
	if resp["cards_count"] != float64(5) {
		t.Errorf("cards_count = %v, want 5", resp["cards_count"])
	}
	if resp["question"] != "What awaits me this year?" {
		t.Errorf("question = %v", resp["question"])
	}
	if resp["reading_id"] == "" || resp["timestamp"] == "" {
		t.Error("reading_id or timestamp missing")
	}

	cards := resp["cards"].([]any)
	seen := map[string]bool{}
	for i, raw := range cards {
		card := raw.(map[string]any)
		name := card["name"].(string)
		if seen[name] {
			t.Errorf("duplicate card %q", name)
		}
		seen[name] = true
		if o := card["orientation"]; o != "upright" && o != "reversed" {
			t.Errorf("card %q orientation = %v", name, o)
		}
		if card["meaning"] == "" {
			t.Errorf("card %q has empty meaning", name)
		}
		if card["position"] != float64(i+1) {
			t.Errorf("card %q position = %v, want %d", name, card["position"], i+1)
		}
	}
}

func TestDrawCardsDefaultCount(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodPost, "/api/draw-cards",
		`{"question":"What awaits me?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp["cards_count"] != float64(5) {
		t.Errorf("default cards_count = %v, want 5", resp["cards_count"])
	}
}

func TestDrawCardsShortQuestion(t *testing.T) {
	h := setupHandler(t, 0)

	for _, q := range []string{"", "ab", "  a  "} {
		rr, resp := doJSON(t, h, http.MethodPost, "/api/draw-cards",
			`{"question":"`+q+`","count":3}`)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("question %q: status = %d, want 400", q, rr.Code)
		}
		if resp["success"] != false || resp["detail"] == "" {
			t.Errorf("question %q: error payload = %v", q, resp)
		}
		if _, ok := resp["cards"]; ok {
			t.Errorf("question %q: error response must not carry cards", q)
		}
	}
}

// TestDrawCardsHugeCount verifies the hard cap: count=1000 yields exactly
// min(10, deck size) cards.
func TestDrawCardsHugeCount(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodPost, "/api/draw-cards",
		`{"question":"Show me everything","count":1000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp["cards_count"] != float64(10) {
		t.Errorf("cards_count = %v, want 10", resp["cards_count"])
	}
}

func TestInterpret(t *testing.T) {
	h := setupHandler(t, 0)

	body := `{
		"question": "Should I take the job?",
		"cards": [
			{"name":"The Fool","orientation":"upright","meaning":"Beginnings","position":1},
			{"name":"The Hermit","orientation":"reversed","meaning":"Isolation","position":2}
		]
	}`
	rr, resp := doJSON(t, h, http.MethodPost, "/api/interpret", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %v", rr.Code, resp)
	}
	if resp["success"] != true || resp["cards_count"] != float64(2) {
		t.Errorf("unexpected payload: %v", resp)
	}
	text, _ := resp["interpretation"].(string)
	if !strings.Contains(text, "The Fool") || !strings.Contains(text, "Should I take the job?") {
		t.Errorf("interpretation missing expected content:\n%s", text)
	}
}

func TestInterpretRequiresCards(t *testing.T) {
	h := setupHandler(t, 0)

	for _, body := range []string{`{"question":"No cards?"}`, `{"cards":[],"question":"Empty"}`} {
		rr, resp := doJSON(t, h, http.MethodPost, "/api/interpret", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
		if resp["success"] != false {
			t.Errorf("body %s: payload = %v", body, resp)
		}
	}
}

// TestSaveThenHistory is the save-then-fetch round trip: the saved reading
// comes back first with an equivalent card structure.
func TestSaveThenHistory(t *testing.T) {
	h := setupHandler(t, 0)

	save := `{
		"user_id": 42,
		"question": "Should I move abroad?",
		"cards": [{"name":"The Chariot","orientation":"upright","meaning":"Forward motion","position":1}],
		"interpretation": "Movement is favored."
	}`
	rr, resp := doJSON(t, h, http.MethodPost, "/api/save-reading", save)
	if rr.Code != http.StatusOK {
		t.Fatalf("save status = %d; body = %v", rr.Code, resp)
	}
	if resp["success"] != true || resp["message"] != "Reading saved" {
		t.Errorf("save payload = %v", resp)
	}
	if resp["reading_id"] == nil || resp["saved_at"] == "" {
		t.Errorf("save payload missing reading_id/saved_at: %v", resp)
	}

	rr, resp = doJSON(t, h, http.MethodGet, "/api/history?user_id=42", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("history status = %d", rr.Code)
	}
	if resp["success"] != true || resp["count"] != float64(1) {
		t.Fatalf("history payload = %v", resp)
	}

	history := resp["history"].([]any)
	entry := history[0].(map[string]any)
	if entry["question"] != "Should I move abroad?" {
		t.Errorf("question = %v", entry["question"])
	}
	cards := entry["cards"].([]any)
	card := cards[0].(map[string]any)
	if card["name"] != "The Chariot" || card["orientation"] != "upright" {
		t.Errorf("cards did not round-trip: %v", cards)
	}
}

func TestHistoryEmptyUser(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodGet, "/api/history?user_id=777", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp["success"] != true || resp["count"] != float64(0) {
		t.Errorf("payload = %v", resp)
	}
	if history, ok := resp["history"].([]any); !ok || len(history) != 0 {
		t.Errorf("history = %v, want empty list", resp["history"])
	}
}

func TestHistoryRequiresUserID(t *testing.T) {
	h := setupHandler(t, 0)

	for _, url := range []string{"/api/history", "/api/history?user_id=abc"} {
		rr, _ := doJSON(t, h, http.MethodGet, url, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, rr.Code)
		}
	}
}

func TestSaveValidation(t *testing.T) {
	h := setupHandler(t, 0)

	cases := []string{
		`{"question":"No user","cards":[{"name":"X"}]}`,
		`{"user_id":1,"cards":[{"name":"X"}]}`,
		`{"user_id":1,"question":"No cards"}`,
		`{"user_id":1,"question":"Empty cards","cards":[]}`,
	}
	for _, body := range cases {
		rr, resp := doJSON(t, h, http.MethodPost, "/api/save-reading", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
		if resp["success"] != false || resp["detail"] == "" {
			t.Errorf("body %s: payload = %v", body, resp)
		}
	}
}

func TestMalformedBody(t *testing.T) {
	h := setupHandler(t, 0)

	rr, resp := doJSON(t, h, http.MethodPost, "/api/draw-cards", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if resp["success"] != false {
		t.Errorf("payload = %v", resp)
	}
}

func TestRateLimit(t *testing.T) {
	h := setupHandler(t, 2)

	// httprate answers with plain text, so bypass the JSON helper.
	var last int
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
