package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

const entityTypeDocument = "document"

// transitionRequest is the payload hashed for idempotency on post/void/bounce,
// which otherwise carry no document-level fields of their own.
type transitionRequest struct {
	DocumentID string `json:"documentID"`
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
}

// documentService owns the document lifecycle: it is the only writer of
// document status and, through the posting engine, of ledger lines.
type documentService struct {
	docRepo    portsrepo.DocumentRepositoryFacade
	ledgerRepo portsrepo.LedgerReader
	masterData portsrepo.MasterDataReader
	orgReader  portsrepo.OrgSettingsReader
	broker     *IdempotencyBroker
	engine     *PostingEngine
}

// NewDocumentService creates the document lifecycle service.
func NewDocumentService(
	docRepo portsrepo.DocumentRepositoryFacade,
	ledgerRepo portsrepo.LedgerReader,
	masterData portsrepo.MasterDataReader,
	orgReader portsrepo.OrgSettingsReader,
	broker *IdempotencyBroker,
) portssvc.DocumentSvcFacade {
	return &documentService{
		docRepo:    docRepo,
		ledgerRepo: ledgerRepo,
		masterData: masterData,
		orgReader:  orgReader,
		broker:     broker,
		engine:     NewPostingEngine(),
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// CreateDocument validates master data, computes line totals and inserts the
// document as a Draft.
func (s *documentService) CreateDocument(ctx context.Context, orgID string, docType domain.DocumentType, req dto.CreateDocumentRequest, actorID string, idemKey *string) (*dto.DocumentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Replay resolution comes first: a key that already committed must return
	// the stored response even if the lock date has advanced since.
	stored, hash, err := s.broker.Begin(ctx, orgID, idemKey, req)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		var resp dto.DocumentResponse
		if err := DecodeStoredResponse(stored, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	org, err := s.orgReader.FindOrgSettings(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load org settings: %w", err)
	}
	if err := checkLockDate(org, req.DocumentDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc, err := s.assembleDocument(ctx, org, docType, req, actorID, now)
	if err != nil {
		return nil, err
	}

	// Resolution at create time is pure validation: every referenced account,
	// item, tax code and bank account must exist and be active.
	if _, err := s.resolveAccounts(ctx, org, doc); err != nil {
		return nil, err
	}

	resp := dto.ToDocumentResponse(doc)
	record, err := s.broker.BuildRecord(orgID, idemKey, hash, resp, http.StatusCreated, now)
	if err != nil {
		return nil, err
	}
	audit, err := newAuditEntry(orgID, actorID, entityTypeDocument, doc.DocumentID, domain.ActionCreate, nil, doc, now)
	if err != nil {
		return nil, err
	}

	err = withSerializationRetry(ctx, func() error {
		return s.docRepo.SaveDocument(ctx, *doc, audit, record)
	})
	if err != nil {
		if recovered, ok := s.recoverReplay(ctx, orgID, idemKey, hash, err, &resp); ok {
			return recovered.(*dto.DocumentResponse), nil
		}
		logger.Error("Failed to save document", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID), slog.String("document_type", string(docType)))
	return &resp, nil
}

// UpdateDocument re-validates and recomputes a Draft. Any other status is a
// Conflict: posted financial fields are immutable.
func (s *documentService) UpdateDocument(ctx context.Context, orgID string, documentID string, req dto.UpdateDocumentRequest, actorID string) (*dto.DocumentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	org, doc, err := s.loadOrgAndDocument(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.IsEditable() {
		return nil, fmt.Errorf("%w: document %s is %s and cannot be edited", apperrors.ErrConflict, documentID, doc.Status)
	}

	// Both the stored date and the requested date must be outside the locked
	// period: neither moving a document out of a closed period nor into one.
	if err := checkLockDate(org, doc.DocumentDate); err != nil {
		return nil, err
	}
	if req.DocumentDate != nil {
		if err := checkLockDate(org, *req.DocumentDate); err != nil {
			return nil, err
		}
	}

	before := *doc
	now := time.Now().UTC()

	if req.DocumentDate != nil {
		doc.DocumentDate = *req.DocumentDate
	}
	if req.CurrencyCode != nil {
		doc.CurrencyCode = *req.CurrencyCode
	}
	if req.ContactID != nil {
		doc.ContactID = req.ContactID
	}
	if req.BankAccountID != nil {
		doc.BankAccountID = req.BankAccountID
	}
	if req.Memo != nil {
		doc.Memo = *req.Memo
	}
	if doc.CurrencyCode != org.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: document currency %s differs from org base currency %s", apperrors.ErrValidation, doc.CurrencyCode, org.BaseCurrencyCode)
	}

	if req.Lines != nil {
		lines, subtotal, tax, err := s.computeLines(ctx, org, doc.DocumentType, doc.DocumentID, req.Lines)
		if err != nil {
			return nil, err
		}
		doc.Lines = lines
		doc.SubtotalMinor = subtotal
		doc.TaxMinor = tax
		doc.TotalMinor = subtotal + tax
	}

	if _, err := s.resolveAccounts(ctx, org, doc); err != nil {
		return nil, err
	}

	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorID

	audit, err := newAuditEntry(orgID, actorID, entityTypeDocument, doc.DocumentID, domain.ActionUpdate, &before, doc, now)
	if err != nil {
		return nil, err
	}
	err = withSerializationRetry(ctx, func() error {
		return s.docRepo.UpdateDocument(ctx, *doc, audit)
	})
	if err != nil {
		logger.Error("Failed to update document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, err
	}

	logger.Info("Document updated", slog.String("document_id", documentID))
	resp := dto.ToDocumentResponse(doc)
	return &resp, nil
}

// PostDocument transitions Draft -> Posted: builds the balanced ledger batch and
// commits the status change and batch atomically. Exactly one of any number of
// concurrent posts succeeds; the rest observe Conflict.
func (s *documentService) PostDocument(ctx context.Context, orgID string, documentID string, actorID string, idemKey *string) (*dto.PostDocumentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stored, hash, err := s.broker.Begin(ctx, orgID, idemKey, transitionRequest{DocumentID: documentID, Action: "post"})
	if err != nil {
		return nil, err
	}
	if stored != nil {
		var resp dto.PostDocumentResponse
		if err := DecodeStoredResponse(stored, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	org, doc, err := s.loadOrgAndDocument(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: document %s is %s, only a Draft can be posted", apperrors.ErrConflict, documentID, doc.Status)
	}
	if err := checkLockDate(org, doc.DocumentDate); err != nil {
		return nil, err
	}

	resolution, err := s.resolveAccounts(ctx, org, doc)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	batch, err := s.engine.BuildBatch(PostingInput{
		Document:         doc,
		Org:              org,
		LineAccounts:     resolution.lineAccounts,
		TaxAccounts:      resolution.taxAccounts,
		ControlAccountID: resolution.controlAccountID,
	}, actorID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			logger.Error("Posting batch does not balance", slog.String("document_id", documentID), slog.String("error", err.Error()), slog.Bool("alert", true))
		}
		return nil, err
	}

	before := *doc
	posted := *doc
	posted.Status = domain.StatusPosted
	posted.PostedAt = &now
	posted.LastUpdatedAt = now
	posted.LastUpdatedBy = actorID

	resp := dto.PostDocumentResponse{Document: dto.ToDocumentResponse(&posted), LedgerBatchID: batch.BatchID}
	record, err := s.broker.BuildRecord(orgID, idemKey, hash, resp, http.StatusOK, now)
	if err != nil {
		return nil, err
	}
	audit, err := newAuditEntry(orgID, actorID, entityTypeDocument, documentID, domain.ActionPost, &before, &posted, now)
	if err != nil {
		return nil, err
	}

	err = withSerializationRetry(ctx, func() error {
		return s.docRepo.PostDocument(ctx, documentID, before.LastUpdatedAt, now, actorID, *batch, audit, record)
	})
	if err != nil {
		if recovered, ok := s.recoverReplay(ctx, orgID, idemKey, hash, err, &resp); ok {
			return recovered.(*dto.PostDocumentResponse), nil
		}
		logger.Warn("Failed to post document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, err
	}

	logger.Info("Document posted", slog.String("document_id", documentID), slog.String("batch_id", batch.BatchID))
	return &resp, nil
}

// VoidDocument transitions Posted -> Void via a compensating reversal batch.
func (s *documentService) VoidDocument(ctx context.Context, orgID string, documentID string, req dto.VoidDocumentRequest, actorID string, idemKey *string) (*dto.VoidDocumentResponse, error) {
	return s.reverse(ctx, orgID, documentID, req, actorID, idemKey, domain.StatusVoid)
}

// BounceDocument transitions Posted -> Bounced. Only payment documents bounce.
func (s *documentService) BounceDocument(ctx context.Context, orgID string, documentID string, req dto.VoidDocumentRequest, actorID string, idemKey *string) (*dto.VoidDocumentResponse, error) {
	return s.reverse(ctx, orgID, documentID, req, actorID, idemKey, domain.StatusBounced)
}

func (s *documentService) reverse(ctx context.Context, orgID string, documentID string, req dto.VoidDocumentRequest, actorID string, idemKey *string, target domain.DocumentStatus) (*dto.VoidDocumentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	action := "void"
	auditAction := domain.ActionVoid
	if target == domain.StatusBounced {
		action = "bounce"
		auditAction = domain.ActionBounce
	}

	stored, hash, err := s.broker.Begin(ctx, orgID, idemKey, transitionRequest{DocumentID: documentID, Action: action, Reason: req.Reason})
	if err != nil {
		return nil, err
	}
	if stored != nil {
		var resp dto.VoidDocumentResponse
		if err := DecodeStoredResponse(stored, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	org, doc, err := s.loadOrgAndDocument(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	if !doc.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: document %s is %s and cannot transition to %s", apperrors.ErrConflict, documentID, doc.Status, target)
	}
	// The guard runs against the original document date: a document in a closed
	// period stays closed, its reversal included.
	if err := checkLockDate(org, doc.DocumentDate); err != nil {
		return nil, err
	}

	original, err := s.findOriginalBatch(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversal, err := s.engine.BuildReversal(original, now, req.Reason, actorID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			logger.Error("Reversal batch does not balance", slog.String("document_id", documentID), slog.String("error", err.Error()), slog.Bool("alert", true))
		}
		return nil, err
	}

	before := *doc
	voided := *doc
	voided.Status = target
	voided.VoidedAt = &now
	voided.VoidReason = req.Reason
	voided.LastUpdatedAt = now
	voided.LastUpdatedBy = actorID

	resp := dto.VoidDocumentResponse{Document: dto.ToDocumentResponse(&voided), ReversalBatchID: reversal.BatchID}
	record, err := s.broker.BuildRecord(orgID, idemKey, hash, resp, http.StatusOK, now)
	if err != nil {
		return nil, err
	}
	audit, err := newAuditEntry(orgID, actorID, entityTypeDocument, documentID, auditAction, &before, &voided, now)
	if err != nil {
		return nil, err
	}

	err = withSerializationRetry(ctx, func() error {
		return s.docRepo.ReverseDocument(ctx, documentID, target, now, req.Reason, actorID, *reversal, audit, record)
	})
	if err != nil {
		if recovered, ok := s.recoverReplay(ctx, orgID, idemKey, hash, err, &resp); ok {
			return recovered.(*dto.VoidDocumentResponse), nil
		}
		logger.Warn("Failed to reverse document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, err
	}

	logger.Info("Document reversed", slog.String("document_id", documentID), slog.String("target_status", string(target)), slog.String("reversal_batch_id", reversal.BatchID))
	return &resp, nil
}

// GetDocumentByID retrieves a document with its lines.
func (s *documentService) GetDocumentByID(ctx context.Context, orgID string, documentID string) (*dto.DocumentResponse, error) {
	doc, err := s.findOrgDocument(ctx, orgID, documentID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDocumentResponse(doc)
	return &resp, nil
}

// ListDocuments retrieves a token-paginated page of documents of one type.
func (s *documentService) ListDocuments(ctx context.Context, orgID string, docType domain.DocumentType, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	docs, nextToken, err := s.docRepo.ListDocumentsByOrg(ctx, orgID, docType, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	responses := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = dto.ToDocumentResponse(&docs[i])
	}
	return &dto.ListDocumentsResponse{Documents: responses, NextToken: nextToken}, nil
}

// GetDocumentLedger retrieves every posting batch a document has produced.
func (s *documentService) GetDocumentLedger(ctx context.Context, orgID string, documentID string) (*dto.DocumentLedgerResponse, error) {
	if _, err := s.findOrgDocument(ctx, orgID, documentID); err != nil {
		return nil, err
	}
	batches, err := s.ledgerRepo.FindBatchesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger batches for document %s: %w", documentID, err)
	}
	resp := &dto.DocumentLedgerResponse{DocumentID: documentID}
	for i := range batches {
		resp.Batches = append(resp.Batches, dto.ToPostingBatchResponse(&batches[i]))
	}
	return resp, nil
}

// --- internals ---

func (s *documentService) loadOrgAndDocument(ctx context.Context, orgID string, documentID string) (*domain.OrgSettings, *domain.Document, error) {
	org, err := s.orgReader.FindOrgSettings(ctx, orgID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load org settings: %w", err)
	}
	doc, err := s.findOrgDocument(ctx, orgID, documentID)
	if err != nil {
		return nil, nil, err
	}
	return org, doc, nil
}

func (s *documentService) findOrgDocument(ctx context.Context, orgID string, documentID string) (*domain.Document, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.OrgID != orgID {
		// Obscure cross-org existence.
		return nil, apperrors.ErrNotFound
	}
	return doc, nil
}

// findOriginalBatch returns the document's non-reversal posting batch.
func (s *documentService) findOriginalBatch(ctx context.Context, documentID string) (*domain.PostingBatch, error) {
	batches, err := s.ledgerRepo.FindBatchesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting batches for document %s: %w", documentID, err)
	}
	for i := range batches {
		if batches[i].ReversalOfBatchID == nil {
			return &batches[i], nil
		}
	}
	return nil, fmt.Errorf("%w: document %s has no posting batch to reverse", apperrors.ErrInternal, documentID)
}

// recoverReplay handles the loser of a same-key insert race: if the failure was
// a conflict and the winning record carries our hash, its response is decoded
// into out and returned.
func (s *documentService) recoverReplay(ctx context.Context, orgID string, idemKey *string, hash string, cause error, out any) (any, bool) {
	if idemKey == nil || !errors.Is(cause, apperrors.ErrConflict) {
		return nil, false
	}
	record, err := s.broker.Recover(ctx, orgID, idemKey, hash)
	if err != nil {
		return nil, false
	}
	if err := DecodeStoredResponse(record, out); err != nil {
		return nil, false
	}
	return out, true
}

func (s *documentService) assembleDocument(ctx context.Context, org *domain.OrgSettings, docType domain.DocumentType, req dto.CreateDocumentRequest, actorID string, now time.Time) (*domain.Document, error) {
	if req.CurrencyCode != org.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: document currency %s differs from org base currency %s", apperrors.ErrValidation, req.CurrencyCode, org.BaseCurrencyCode)
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		exchangeRate = *req.ExchangeRate
		if !exchangeRate.Equal(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: base-currency documents must carry an exchange rate of 1", apperrors.ErrValidation)
		}
	}

	documentID := uuid.NewString()
	lines, subtotal, tax, err := s.computeLines(ctx, org, docType, documentID, req.Lines)
	if err != nil {
		return nil, err
	}

	return &domain.Document{
		DocumentID:    documentID,
		OrgID:         org.OrgID,
		DocumentType:  docType,
		Status:        domain.StatusDraft,
		DocumentDate:  req.DocumentDate,
		CurrencyCode:  req.CurrencyCode,
		ExchangeRate:  exchangeRate,
		ContactID:     req.ContactID,
		BankAccountID: req.BankAccountID,
		Memo:          req.Memo,
		Lines:         lines,
		SubtotalMinor: subtotal,
		TaxMinor:      tax,
		TotalMinor:    subtotal + tax,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}, nil
}

// computeLines turns line requests into domain lines with amounts fixed in
// minor units. All intermediate math is decimal; rounding happens exactly once
// per line value, so document totals always equal the sum of their lines.
func (s *documentService) computeLines(ctx context.Context, org *domain.OrgSettings, docType domain.DocumentType, documentID string, reqLines []dto.DocumentLineRequest) ([]domain.DocumentLine, int64, int64, error) {
	taxCodeIDs := make([]string, 0)
	for i := range reqLines {
		if reqLines[i].TaxCodeID != nil {
			taxCodeIDs = append(taxCodeIDs, *reqLines[i].TaxCodeID)
		}
	}
	taxCodes, err := s.masterData.FindTaxCodesByIDs(ctx, org.OrgID, uniqueStrings(taxCodeIDs))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to fetch tax codes: %w", err)
	}

	isJournal := docType == domain.JournalEntry
	lines := make([]domain.DocumentLine, len(reqLines))
	var subtotalSum, taxSum int64
	for i, lr := range reqLines {
		if lr.Quantity.IsNegative() {
			return nil, 0, 0, fmt.Errorf("%w: line %d: quantity must not be negative", apperrors.ErrValidation, i+1)
		}
		if lr.UnitPrice.IsNegative() {
			return nil, 0, 0, fmt.Errorf("%w: line %d: unit price must not be negative", apperrors.ErrValidation, i+1)
		}
		if lr.DiscountMinor < 0 {
			return nil, 0, 0, fmt.Errorf("%w: line %d: discount must not be negative", apperrors.ErrValidation, i+1)
		}

		gross := lr.Quantity.Mul(lr.UnitPrice)
		var subtotal, tax int64
		if isJournal {
			if lr.Side == nil {
				return nil, 0, 0, fmt.Errorf("%w: line %d: journal lines need an explicit debit/credit side", apperrors.ErrValidation, i+1)
			}
			if lr.TaxCodeID != nil {
				return nil, 0, 0, fmt.Errorf("%w: line %d: journal lines do not carry tax codes", apperrors.ErrValidation, i+1)
			}
			if lr.DiscountMinor != 0 {
				return nil, 0, 0, fmt.Errorf("%w: line %d: journal lines do not carry discounts", apperrors.ErrValidation, i+1)
			}
			// Journal amounts are entered directly and must already be exact.
			subtotal, err = domain.ToMinorUnits(gross, org.BaseCurrencyDecimals)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("%w: line %d: %v", apperrors.ErrValidation, i+1, err)
			}
			if subtotal <= 0 {
				return nil, 0, 0, fmt.Errorf("%w: line %d: journal amounts must be positive", apperrors.ErrValidation, i+1)
			}
		} else {
			if lr.Side != nil {
				return nil, 0, 0, fmt.Errorf("%w: line %d: only journal lines carry an explicit side", apperrors.ErrValidation, i+1)
			}
			subtotal = domain.RoundToMinorUnits(gross, org.BaseCurrencyDecimals) - lr.DiscountMinor
			if subtotal < 0 {
				return nil, 0, 0, fmt.Errorf("%w: line %d: discount exceeds the line amount", apperrors.ErrValidation, i+1)
			}
			if lr.TaxCodeID != nil {
				code, ok := taxCodes[*lr.TaxCodeID]
				if !ok {
					return nil, 0, 0, fmt.Errorf("%w: tax code %s", apperrors.ErrNotFound, *lr.TaxCodeID)
				}
				if !code.IsActive {
					return nil, 0, 0, fmt.Errorf("%w: tax code %s is inactive", apperrors.ErrValidation, *lr.TaxCodeID)
				}
				taxable := domain.FromMinorUnits(subtotal, org.BaseCurrencyDecimals)
				tax = domain.RoundToMinorUnits(taxable.Mul(code.Rate), org.BaseCurrencyDecimals)
			}
		}

		lines[i] = domain.DocumentLine{
			LineID:        uuid.NewString(),
			DocumentID:    documentID,
			AccountID:     lr.AccountID,
			ItemID:        lr.ItemID,
			Description:   lr.Description,
			Quantity:      lr.Quantity,
			UnitPrice:     lr.UnitPrice,
			DiscountMinor: lr.DiscountMinor,
			TaxCodeID:     lr.TaxCodeID,
			Side:          lr.Side,
			SubtotalMinor: subtotal,
			TaxMinor:      tax,
			TotalMinor:    subtotal + tax,
			Position:      i + 1,
		}
		if err := lines[i].Validate(); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		subtotalSum += subtotal
		taxSum += tax
	}

	if isJournal {
		var debits, credits int64
		for i := range lines {
			if *lines[i].Side == domain.Debit {
				debits += lines[i].SubtotalMinor
			} else {
				credits += lines[i].SubtotalMinor
			}
		}
		if debits != credits {
			return nil, 0, 0, fmt.Errorf("%w: journal debits %d do not equal credits %d", apperrors.ErrValidation, debits, credits)
		}
	}

	return lines, subtotalSum, taxSum, nil
}

// accountResolution is the output of resolving a document's account mappings.
type accountResolution struct {
	lineAccounts     map[string]string
	taxAccounts      map[string]string
	controlAccountID string
}

// resolveAccounts maps every document line onto a GL account (explicit account,
// item mapping, or type default), every tax code onto its direction-correct tax
// account, and the document type onto its control account. Everything referenced
// must exist, be active, and belong to the org.
func (s *documentService) resolveAccounts(ctx context.Context, org *domain.OrgSettings, doc *domain.Document) (*accountResolution, error) {
	profile, ok := typeProfiles[doc.DocumentType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown document type %s", apperrors.ErrValidation, doc.DocumentType)
	}

	itemIDs := make([]string, 0)
	taxCodeIDs := make([]string, 0)
	for i := range doc.Lines {
		if doc.Lines[i].ItemID != nil {
			itemIDs = append(itemIDs, *doc.Lines[i].ItemID)
		}
		if doc.Lines[i].TaxCodeID != nil {
			taxCodeIDs = append(taxCodeIDs, *doc.Lines[i].TaxCodeID)
		}
	}
	items, err := s.masterData.FindItemsByIDs(ctx, org.OrgID, uniqueStrings(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	taxCodes, err := s.masterData.FindTaxCodesByIDs(ctx, org.OrgID, uniqueStrings(taxCodeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax codes: %w", err)
	}

	res := &accountResolution{
		lineAccounts: make(map[string]string, len(doc.Lines)),
		taxAccounts:  make(map[string]string, len(taxCodes)),
	}

	for i := range doc.Lines {
		line := &doc.Lines[i]
		accountID, err := s.resolveLineAccount(org, doc.DocumentType, line, items)
		if err != nil {
			return nil, err
		}
		res.lineAccounts[line.LineID] = accountID
	}

	for id, code := range taxCodes {
		if !code.IsActive {
			return nil, fmt.Errorf("%w: tax code %s is inactive", apperrors.ErrValidation, id)
		}
		switch profile.tax {
		case taxCollected:
			res.taxAccounts[id] = code.CollectedAccountID
		case taxPaid:
			res.taxAccounts[id] = code.PaidAccountID
		default:
			return nil, fmt.Errorf("%w: document type %s does not carry tax codes", apperrors.ErrValidation, doc.DocumentType)
		}
	}

	switch profile.control {
	case controlReceivable:
		if org.ReceivableAccountID == "" {
			return nil, fmt.Errorf("%w: org has no receivable control account configured", apperrors.ErrValidation)
		}
		res.controlAccountID = org.ReceivableAccountID
	case controlPayable:
		if org.PayableAccountID == "" {
			return nil, fmt.Errorf("%w: org has no payable control account configured", apperrors.ErrValidation)
		}
		res.controlAccountID = org.PayableAccountID
	case controlBank:
		if doc.BankAccountID == nil {
			return nil, fmt.Errorf("%w: %s documents need a bank account", apperrors.ErrValidation, doc.DocumentType)
		}
		bankAccount, err := s.masterData.FindBankAccountByID(ctx, org.OrgID, *doc.BankAccountID)
		if err != nil {
			return nil, err
		}
		if !bankAccount.IsActive {
			return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrValidation, bankAccount.BankAccountID)
		}
		res.controlAccountID = bankAccount.GLAccountID
	}

	// Existence and activity check over every GL account the batch will touch.
	accountIDs := make([]string, 0, len(res.lineAccounts)+len(res.taxAccounts)+1)
	for _, id := range res.lineAccounts {
		accountIDs = append(accountIDs, id)
	}
	for _, id := range res.taxAccounts {
		accountIDs = append(accountIDs, id)
	}
	if res.controlAccountID != "" {
		accountIDs = append(accountIDs, res.controlAccountID)
	}
	accountIDs = uniqueStrings(accountIDs)
	accounts, err := s.masterData.FindAccountsByIDs(ctx, org.OrgID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.OrgID != org.OrgID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	return res, nil
}

func (s *documentService) resolveLineAccount(org *domain.OrgSettings, docType domain.DocumentType, line *domain.DocumentLine, items map[string]domain.Item) (string, error) {
	if line.AccountID != nil {
		return *line.AccountID, nil
	}
	if line.ItemID != nil {
		item, ok := items[*line.ItemID]
		if !ok {
			return "", fmt.Errorf("%w: item %s", apperrors.ErrNotFound, *line.ItemID)
		}
		if !item.IsActive {
			return "", fmt.Errorf("%w: item %s is inactive", apperrors.ErrValidation, *line.ItemID)
		}
		switch docType {
		case domain.Invoice, domain.CreditNote:
			return item.SalesAccountID, nil
		case domain.Bill, domain.DebitNote, domain.Expense:
			return item.PurchaseAccountID, nil
		default:
			return "", fmt.Errorf("%w: %s lines cannot reference items", apperrors.ErrValidation, docType)
		}
	}
	// Type defaults for lines with neither account nor item.
	switch docType {
	case domain.CustomerPayment:
		if org.ReceivableAccountID == "" {
			return "", fmt.Errorf("%w: org has no receivable control account configured", apperrors.ErrValidation)
		}
		return org.ReceivableAccountID, nil
	case domain.VendorPayment:
		if org.PayableAccountID == "" {
			return "", fmt.Errorf("%w: org has no payable control account configured", apperrors.ErrValidation)
		}
		return org.PayableAccountID, nil
	default:
		return "", fmt.Errorf("%w: line %s needs an account or an item", apperrors.ErrValidation, line.LineID)
	}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
