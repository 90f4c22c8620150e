package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// DocumentSvcFacade is the document lifecycle state machine: the only way a
// document changes status. Mutations accept an optional client idempotency key;
// a nil key bypasses the broker.
type DocumentSvcFacade interface {
	CreateDocument(ctx context.Context, orgID string, docType domain.DocumentType, req dto.CreateDocumentRequest, actorID string, idemKey *string) (*dto.DocumentResponse, error)
	UpdateDocument(ctx context.Context, orgID string, documentID string, req dto.UpdateDocumentRequest, actorID string) (*dto.DocumentResponse, error)
	PostDocument(ctx context.Context, orgID string, documentID string, actorID string, idemKey *string) (*dto.PostDocumentResponse, error)
	VoidDocument(ctx context.Context, orgID string, documentID string, req dto.VoidDocumentRequest, actorID string, idemKey *string) (*dto.VoidDocumentResponse, error)
	BounceDocument(ctx context.Context, orgID string, documentID string, req dto.VoidDocumentRequest, actorID string, idemKey *string) (*dto.VoidDocumentResponse, error)
	GetDocumentByID(ctx context.Context, orgID string, documentID string) (*dto.DocumentResponse, error)
	ListDocuments(ctx context.Context, orgID string, docType domain.DocumentType, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
	GetDocumentLedger(ctx context.Context, orgID string, documentID string) (*dto.DocumentLedgerResponse, error)
}
