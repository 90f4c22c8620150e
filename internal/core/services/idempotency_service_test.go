package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/hashing"
)

type brokerRequest struct {
	Amount int64  `json:"amount"`
	Memo   string `json:"memo"`
}

type brokerResponse struct {
	ID string `json:"id"`
}

func TestIdempotencyBroker_NoKeyBypasses(t *testing.T) {
	idemRepo := new(MockIdempotencyRepository)
	broker := services.NewIdempotencyBroker(idemRepo)

	record, hash, err := broker.Begin(context.Background(), uuid.NewString(), nil, brokerRequest{Amount: 100})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Empty(t, hash)

	empty := ""
	record, hash, err = broker.Begin(context.Background(), uuid.NewString(), &empty, brokerRequest{Amount: 100})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Empty(t, hash)

	idemRepo.AssertNotCalled(t, "FindRecord")
}

func TestIdempotencyBroker_FreshKey(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()
	key := uuid.NewString()
	idemRepo := new(MockIdempotencyRepository)
	broker := services.NewIdempotencyBroker(idemRepo)

	idemRepo.On("FindRecord", ctx, orgID, key).Return(nil, apperrors.ErrNotFound).Once()

	record, hash, err := broker.Begin(ctx, orgID, &key, brokerRequest{Amount: 100, Memo: "first"})
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.NotEmpty(t, hash)
	idemRepo.AssertExpectations(t)
}

func TestIdempotencyBroker_ReplayMatchingHash(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()
	key := uuid.NewString()
	req := brokerRequest{Amount: 100, Memo: "first"}
	idemRepo := new(MockIdempotencyRepository)
	broker := services.NewIdempotencyBroker(idemRepo)

	hash, err := hashing.RequestHash(req)
	require.NoError(t, err)
	idemRepo.On("FindRecord", ctx, orgID, key).Return(&domain.IdempotencyRecord{
		OrgID:          orgID,
		IdempotencyKey: key,
		RequestHash:    hash,
		ResponseBody:   []byte(`{"id":"stored"}`),
		StatusCode:     201,
	}, nil).Once()

	record, gotHash, err := broker.Begin(ctx, orgID, &key, req)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, hash, gotHash)

	var resp brokerResponse
	require.NoError(t, services.DecodeStoredResponse(record, &resp))
	assert.Equal(t, "stored", resp.ID)
}

func TestIdempotencyBroker_KeyReuseDifferentPayload(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()
	key := uuid.NewString()
	idemRepo := new(MockIdempotencyRepository)
	broker := services.NewIdempotencyBroker(idemRepo)

	idemRepo.On("FindRecord", ctx, orgID, key).Return(&domain.IdempotencyRecord{
		OrgID:          orgID,
		IdempotencyKey: key,
		RequestHash:    "hash-of-the-first-request",
	}, nil).Once()

	_, _, err := broker.Begin(ctx, orgID, &key, brokerRequest{Amount: 999, Memo: "different"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestIdempotencyBroker_BuildRecord(t *testing.T) {
	orgID := uuid.NewString()
	key := uuid.NewString()
	now := time.Now().UTC()
	broker := services.NewIdempotencyBroker(new(MockIdempotencyRepository))

	record, err := broker.BuildRecord(orgID, &key, "some-hash", brokerResponse{ID: "r1"}, 201, now)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, orgID, record.OrgID)
	assert.Equal(t, key, record.IdempotencyKey)
	assert.Equal(t, "some-hash", record.RequestHash)
	assert.Equal(t, 201, record.StatusCode)
	assert.JSONEq(t, `{"id":"r1"}`, string(record.ResponseBody))

	// No key in play: nothing to insert.
	record, err = broker.BuildRecord(orgID, nil, "", brokerResponse{ID: "r1"}, 201, now)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestIdempotencyBroker_Recover(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()
	key := uuid.NewString()
	idemRepo := new(MockIdempotencyRepository)
	broker := services.NewIdempotencyBroker(idemRepo)

	winner := &domain.IdempotencyRecord{
		OrgID:          orgID,
		IdempotencyKey: key,
		RequestHash:    "shared-hash",
		ResponseBody:   []byte(`{"id":"winner"}`),
	}
	idemRepo.On("FindRecord", ctx, orgID, key).Return(winner, nil).Once()

	record, err := broker.Recover(ctx, orgID, &key, "shared-hash")
	require.NoError(t, err)
	assert.Equal(t, winner, record)

	// Winner used the same key for a different payload: still a conflict.
	idemRepo.On("FindRecord", ctx, orgID, key).Return(winner, nil).Once()
	_, err = broker.Recover(ctx, orgID, &key, "a-different-hash")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRequestHash_Stable(t *testing.T) {
	first, err := hashing.RequestHash(brokerRequest{Amount: 100, Memo: "m"})
	require.NoError(t, err)
	second, err := hashing.RequestHash(brokerRequest{Amount: 100, Memo: "m"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := hashing.RequestHash(brokerRequest{Amount: 101, Memo: "m"})
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
