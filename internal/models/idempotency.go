package models

import (
	"encoding/json"
	"time"
)

// IdempotencyRecord represents a row in the idempotency_records table, keyed by
// (org_id, idempotency_key).
type IdempotencyRecord struct {
	OrgID          string          `json:"orgID"`
	IdempotencyKey string          `json:"idempotencyKey"`
	RequestHash    string          `json:"requestHash"`
	ResponseBody   json.RawMessage `json:"responseBody"`
	StatusCode     int             `json:"statusCode"`
	CreatedAt      time.Time       `json:"createdAt"`
}
