package storage

import (
	"encoding/json"
	"time"
)

// Reading is one persisted spread. Cards holds the JSON the client saved;
// the store treats it as opaque text and never validates its inner shape.
type Reading struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Question       string          `json:"question"`
	Cards          json.RawMessage `json:"cards"`
	Interpretation string          `json:"interpretation"`
	CreatedAt      time.Time       `json:"created_at"`
}
