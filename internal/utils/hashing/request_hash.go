package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RequestHash produces a stable hex SHA-256 digest of a request body for
// idempotency comparison. The hash covers the client-supplied document-level
// fields only: callers pass the bound request DTO, never a struct containing
// server-derived values. Go's encoding/json emits struct fields in declaration
// order, so the same DTO always serializes to the same bytes.
func RequestHash(requestBody any) (string, error) {
	raw, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request body for hashing: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
