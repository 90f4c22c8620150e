package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/hashing"
)

// IdempotencyBroker is the replay-safety layer wrapped around every mutating
// operation that carries a client key. Begin runs before business logic and
// either short-circuits with the stored response or hands back the request hash;
// the matching record is inserted in the same storage transaction as the
// operation's side effects, so a crash can never leave a record without its
// mutation or a mutation without its record.
type IdempotencyBroker struct {
	idemRepo portsrepo.IdempotencyRepositoryFacade
}

// NewIdempotencyBroker creates the broker.
func NewIdempotencyBroker(idemRepo portsrepo.IdempotencyRepositoryFacade) *IdempotencyBroker {
	return &IdempotencyBroker{idemRepo: idemRepo}
}

// Begin hashes the client request body and looks up (org, key). Results:
//   - no key supplied: the broker is bypassed, caller proceeds (nil, "", nil
//     with hash empty).
//   - record found, hash matches: the stored record is returned and the caller
//     must replay its response without re-executing business logic.
//   - record found, hash differs: ErrConflict.
//   - no record: the caller proceeds and completes with the returned hash.
func (b *IdempotencyBroker) Begin(ctx context.Context, orgID string, key *string, requestBody any) (*domain.IdempotencyRecord, string, error) {
	if key == nil || *key == "" {
		return nil, "", nil
	}

	hash, err := hashing.RequestHash(requestBody)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	record, err := b.idemRepo.FindRecord(ctx, orgID, *key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, hash, nil
		}
		return nil, "", fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	if record.RequestHash != hash {
		middleware.GetLoggerFromCtx(ctx).Warn("Idempotency key reused with a different payload",
			slog.String("idempotency_key", *key))
		return nil, "", fmt.Errorf("%w: idempotency key %s was already used with a different payload", apperrors.ErrConflict, *key)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Idempotent replay short-circuited",
		slog.String("idempotency_key", *key))
	return record, hash, nil
}

// BuildRecord serializes a response into the record the storage layer inserts
// alongside the operation's own writes. Returns nil when no key is in play.
func (b *IdempotencyBroker) BuildRecord(orgID string, key *string, hash string, response any, statusCode int, now time.Time) (*domain.IdempotencyRecord, error) {
	if key == nil || *key == "" {
		return nil, nil
	}
	body, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to serialize response for idempotency record: %v", apperrors.ErrInternal, err)
	}
	return &domain.IdempotencyRecord{
		OrgID:          orgID,
		IdempotencyKey: *key,
		RequestHash:    hash,
		ResponseBody:   body,
		StatusCode:     statusCode,
		CreatedAt:      now,
	}, nil
}

// Recover resolves the loser of a same-key race: the storage-level unique
// constraint rejected our insert, so the winner's record is read back and
// replayed if the payload matched, or surfaced as a conflict if it did not.
func (b *IdempotencyBroker) Recover(ctx context.Context, orgID string, key *string, hash string) (*domain.IdempotencyRecord, error) {
	if key == nil || *key == "" {
		return nil, fmt.Errorf("%w: conflict without an idempotency key", apperrors.ErrConflict)
	}
	record, err := b.idemRepo.FindRecord(ctx, orgID, *key)
	if err != nil {
		return nil, fmt.Errorf("failed to read back winning idempotency record: %w", err)
	}
	if record.RequestHash != hash {
		return nil, fmt.Errorf("%w: idempotency key %s was already used with a different payload", apperrors.ErrConflict, *key)
	}
	return record, nil
}

// DecodeStoredResponse unmarshals a stored response body into out.
func DecodeStoredResponse(record *domain.IdempotencyRecord, out any) error {
	if err := json.Unmarshal(record.ResponseBody, out); err != nil {
		return fmt.Errorf("%w: stored idempotency response is not decodable: %v", apperrors.ErrInternal, err)
	}
	return nil
}
