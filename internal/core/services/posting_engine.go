package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// controlKind names the control account that balances a document's detail lines.
type controlKind int

const (
	controlNone controlKind = iota // journals balance themselves
	controlReceivable
	controlPayable
	controlBank
)

// taxDirection picks which side of a tax code applies.
type taxDirection int

const (
	taxNone taxDirection = iota
	taxCollected              // output VAT (sales direction)
	taxPaid                   // input VAT (purchase direction)
)

// typeProfile is the per-document-type posting strategy: which side the grouped
// detail lines land on, which control account balances them, and which tax
// account direction applies. The control line always takes the opposite side.
type typeProfile struct {
	detailSide domain.TransactionSide
	control    controlKind
	tax        taxDirection
}

var typeProfiles = map[domain.DocumentType]typeProfile{
	domain.Invoice:         {detailSide: domain.Credit, control: controlReceivable, tax: taxCollected},
	domain.CreditNote:      {detailSide: domain.Debit, control: controlReceivable, tax: taxCollected},
	domain.Bill:            {detailSide: domain.Debit, control: controlPayable, tax: taxPaid},
	domain.DebitNote:       {detailSide: domain.Credit, control: controlPayable, tax: taxPaid},
	domain.Expense:         {detailSide: domain.Debit, control: controlBank, tax: taxPaid},
	domain.CustomerPayment: {detailSide: domain.Credit, control: controlBank, tax: taxNone},
	domain.VendorPayment:   {detailSide: domain.Debit, control: controlBank, tax: taxNone},
	domain.JournalEntry:    {control: controlNone, tax: taxNone},
}

// PostingInput is a document plus its resolved account mappings: every detail
// line mapped to a GL account, every tax code mapped to the direction-correct
// tax account, and the type's control account. Resolution happens in the
// document service; the engine only turns resolved amounts into a batch.
type PostingInput struct {
	Document         *domain.Document
	Org              *domain.OrgSettings
	LineAccounts     map[string]string // line ID -> detail account ID
	TaxAccounts      map[string]string // tax code ID -> tax account ID
	ControlAccountID string            // empty for journals
}

// PostingEngine converts documents into balanced ledger batches. It is stateless;
// one instance serves all document types.
type PostingEngine struct{}

// NewPostingEngine creates the engine.
func NewPostingEngine() *PostingEngine {
	return &PostingEngine{}
}

// BuildBatch produces the balanced posting batch for a document. Lines are
// grouped per distinct account (one ledger line per account group, not one per
// document line) and balanced by a single control line carrying the document
// total. The result is asserted balanced to the minor-unit integer; an
// unbalanced batch is an InvariantViolation, never silently rounded.
func (e *PostingEngine) BuildBatch(in PostingInput, actorID string, now time.Time) (*domain.PostingBatch, error) {
	doc := in.Document
	profile, ok := typeProfiles[doc.DocumentType]
	if !ok {
		return nil, fmt.Errorf("%w: no posting profile for document type %s", apperrors.ErrValidation, doc.DocumentType)
	}

	if doc.CurrencyCode != in.Org.BaseCurrencyCode {
		return nil, fmt.Errorf("%w: document currency %s differs from org base currency %s; multi-currency posting is not supported",
			apperrors.ErrValidation, doc.CurrencyCode, in.Org.BaseCurrencyCode)
	}

	batch := &domain.PostingBatch{
		BatchID:      uuid.NewString(),
		OrgID:        doc.OrgID,
		DocumentID:   doc.DocumentID,
		DocumentType: doc.DocumentType,
		PostingDate:  doc.DocumentDate,
		CreatedAt:    now,
		CreatedBy:    actorID,
	}

	var err error
	if profile.control == controlNone {
		err = e.buildJournalLines(batch, in)
	} else {
		err = e.buildDocumentLines(batch, in, profile)
	}
	if err != nil {
		return nil, err
	}

	if err := batch.CheckBalanced(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvariantViolation, err)
	}
	return batch, nil
}

// buildDocumentLines handles every non-journal type: group subtotals per detail
// account, group tax per tax account, then emit the balancing control line.
func (e *PostingEngine) buildDocumentLines(batch *domain.PostingBatch, in PostingInput, profile typeProfile) error {
	doc := in.Document

	detailTotals := make(map[string]int64)
	taxTotals := make(map[string]int64)
	for i := range doc.Lines {
		line := &doc.Lines[i]
		accountID, ok := in.LineAccounts[line.LineID]
		if !ok {
			return fmt.Errorf("%w: no account resolved for line %s", apperrors.ErrValidation, line.LineID)
		}
		detailTotals[accountID] += line.SubtotalMinor

		if line.TaxMinor != 0 {
			if profile.tax == taxNone {
				return fmt.Errorf("%w: document type %s does not carry tax", apperrors.ErrValidation, doc.DocumentType)
			}
			if line.TaxCodeID == nil {
				return fmt.Errorf("%w: line %s has tax without a tax code", apperrors.ErrValidation, line.LineID)
			}
			taxAccountID, ok := in.TaxAccounts[*line.TaxCodeID]
			if !ok {
				return fmt.Errorf("%w: no tax account resolved for tax code %s", apperrors.ErrValidation, *line.TaxCodeID)
			}
			taxTotals[taxAccountID] += line.TaxMinor
		}
	}

	memo := batchMemo(doc)
	for _, accountID := range sortedKeys(detailTotals) {
		if detailTotals[accountID] == 0 {
			continue
		}
		batch.Lines = append(batch.Lines, e.newLine(batch, doc, accountID, profile.detailSide, detailTotals[accountID], memo))
	}
	for _, accountID := range sortedKeys(taxTotals) {
		if taxTotals[accountID] == 0 {
			continue
		}
		batch.Lines = append(batch.Lines, e.newLine(batch, doc, accountID, profile.detailSide, taxTotals[accountID], memo+" (tax)"))
	}

	if in.ControlAccountID == "" {
		return fmt.Errorf("%w: no control account resolved for document %s", apperrors.ErrValidation, doc.DocumentID)
	}
	if doc.TotalMinor == 0 {
		return fmt.Errorf("%w: document %s has a zero total and nothing to post", apperrors.ErrValidation, doc.DocumentID)
	}
	batch.Lines = append(batch.Lines, e.newLine(batch, doc, in.ControlAccountID, profile.detailSide.Opposite(), doc.TotalMinor, memo))
	return nil
}

// buildJournalLines handles free-form journals: each line carries its own side
// and an exact minor-unit amount; lines are grouped per (account, side) and no
// control line is emitted.
func (e *PostingEngine) buildJournalLines(batch *domain.PostingBatch, in PostingInput) error {
	doc := in.Document

	type groupKey struct {
		accountID string
		side      domain.TransactionSide
	}
	totals := make(map[groupKey]int64)
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.Side == nil {
			return fmt.Errorf("%w: journal line %s needs an explicit debit/credit side", apperrors.ErrValidation, line.LineID)
		}
		accountID, ok := in.LineAccounts[line.LineID]
		if !ok {
			return fmt.Errorf("%w: no account resolved for line %s", apperrors.ErrValidation, line.LineID)
		}
		if line.TaxMinor != 0 {
			return fmt.Errorf("%w: journal lines do not carry tax", apperrors.ErrValidation)
		}
		totals[groupKey{accountID, *line.Side}] += line.SubtotalMinor
	}

	keys := make([]groupKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].accountID != keys[j].accountID {
			return keys[i].accountID < keys[j].accountID
		}
		return keys[i].side < keys[j].side
	})

	memo := batchMemo(doc)
	for _, k := range keys {
		if totals[k] == 0 {
			continue
		}
		batch.Lines = append(batch.Lines, e.newLine(batch, doc, k.accountID, k.side, totals[k], memo))
	}
	return nil
}

// BuildReversal re-emits the original batch's lines with debit and credit
// swapped, dated at void time, linked back to the batch it compensates.
func (e *PostingEngine) BuildReversal(original *domain.PostingBatch, reversalDate time.Time, reason string, actorID string, now time.Time) (*domain.PostingBatch, error) {
	reversal := &domain.PostingBatch{
		BatchID:           uuid.NewString(),
		OrgID:             original.OrgID,
		DocumentID:        original.DocumentID,
		DocumentType:      original.DocumentType,
		PostingDate:       reversalDate,
		ReversalOfBatchID: &original.BatchID,
		CreatedAt:         now,
		CreatedBy:         actorID,
	}

	memo := fmt.Sprintf("Reversal of batch %s", original.BatchID)
	if reason != "" {
		memo = fmt.Sprintf("%s: %s", memo, reason)
	}

	for i := range original.Lines {
		orig := &original.Lines[i]
		reversal.Lines = append(reversal.Lines, domain.LedgerLine{
			LedgerLineID:       uuid.NewString(),
			BatchID:            reversal.BatchID,
			OrgID:              orig.OrgID,
			AccountID:          orig.AccountID,
			DebitMinor:         orig.CreditMinor,
			CreditMinor:        orig.DebitMinor,
			SourceDocumentType: orig.SourceDocumentType,
			SourceDocumentID:   orig.SourceDocumentID,
			PostingDate:        reversalDate,
			CurrencyCode:       orig.CurrencyCode,
			Memo:               memo,
		})
	}

	if err := reversal.CheckBalanced(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvariantViolation, err)
	}
	return reversal, nil
}

func (e *PostingEngine) newLine(batch *domain.PostingBatch, doc *domain.Document, accountID string, side domain.TransactionSide, amountMinor int64, memo string) domain.LedgerLine {
	line := domain.LedgerLine{
		LedgerLineID:       uuid.NewString(),
		BatchID:            batch.BatchID,
		OrgID:              doc.OrgID,
		AccountID:          accountID,
		SourceDocumentType: doc.DocumentType,
		SourceDocumentID:   doc.DocumentID,
		PostingDate:        batch.PostingDate,
		CurrencyCode:       doc.CurrencyCode,
		Memo:               memo,
	}
	if side == domain.Debit {
		line.DebitMinor = amountMinor
	} else {
		line.CreditMinor = amountMinor
	}
	return line
}

func batchMemo(doc *domain.Document) string {
	if doc.Memo != "" {
		return doc.Memo
	}
	return fmt.Sprintf("%s %s", doc.DocumentType, doc.DocumentID)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
