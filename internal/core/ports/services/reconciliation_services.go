package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// ReconciliationSvcFacade ties external bank activity to posted ledger batches.
type ReconciliationSvcFacade interface {
	CreateSession(ctx context.Context, orgID string, req dto.CreateSessionRequest, actorID string) (*dto.SessionResponse, error)
	GetSessionByID(ctx context.Context, orgID string, sessionID string) (*dto.SessionResponse, error)
	MatchTransaction(ctx context.Context, orgID string, sessionID string, req dto.MatchTransactionRequest, actorID string) (*dto.MatchResponse, error)
	UnmatchTransaction(ctx context.Context, orgID string, sessionID string, bankTransactionID string, actorID string) error
	ListMatches(ctx context.Context, orgID string, sessionID string) (*dto.ListMatchesResponse, error)
	CloseSession(ctx context.Context, orgID string, sessionID string, req dto.CloseSessionRequest, actorID string) (*dto.SessionResponse, error)
	SuggestMatches(ctx context.Context, orgID string, sessionID string) (*dto.ListSuggestionsResponse, error)
}
