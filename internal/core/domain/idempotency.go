package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyRecord stores the outcome of the first successful mutation carrying a
// client key. Keyed by (org, key); created once, read-only afterward. A key may be
// replayed only with an identical request hash; any other payload is a conflict.
type IdempotencyRecord struct {
	OrgID          string          `json:"orgID"`
	IdempotencyKey string          `json:"idempotencyKey"`
	RequestHash    string          `json:"requestHash"`
	ResponseBody   json.RawMessage `json:"responseBody"`
	StatusCode     int             `json:"statusCode"`
	CreatedAt      time.Time       `json:"createdAt"`
}
