package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// documentHandler handles HTTP requests for the document lifecycle.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(documentService portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
	}
}

// requestScope pulls the authenticated actor and org out of the request. A
// missing identity means the auth middleware did not run; treat as unauthorized.
func requestScope(c *gin.Context, logger *slog.Logger) (orgID string, actorID string, ok bool) {
	ctx := c.Request.Context()
	orgID, okOrg := middleware.GetOrgIDFromCtx(ctx)
	actorID, okActor := middleware.GetActorIDFromCtx(ctx)
	if !okOrg || !okActor {
		logger.Error("Actor or org ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return orgID, actorID, true
}

// docTypeFromPath parses the :documentType path segment.
func docTypeFromPath(c *gin.Context, logger *slog.Logger) (domain.DocumentType, bool) {
	docType, err := domain.ParseDocumentType(c.Param("documentType"))
	if err != nil {
		logger.Warn("Unknown document type in path", slog.String("segment", c.Param("documentType")))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
		return "", false
	}
	return docType, true
}

// createDocument godoc
// @Summary Create a draft document
// @Description Creates a new Draft document of the type named in the path
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentType path string true "Document type segment (e.g. invoices)"
// @Param   Idempotency-Key header string false "Client idempotency key"
// @Param   document body dto.CreateDocumentRequest true "Document"
// @Success 201 {object} dto.DocumentResponse "Created draft"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Idempotency key conflict"
// @Failure 422 {object} map[string]string "Period is locked"
// @Router /{documentType} [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	docType, ok := docTypeFromPath(c, logger)
	if !ok {
		return
	}
	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	createReq := dto.CreateDocumentRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Warn("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": "validation_failed"})
		return
	}

	resp, err := h.documentService.CreateDocument(c.Request.Context(), orgID, docType, createReq, actorID, idempotencyKeyFromHeader(c))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Document created", slog.String("document_id", resp.DocumentID), slog.String("document_type", string(docType)))
	c.JSON(http.StatusCreated, resp)
}

// updateDocument godoc
// @Summary Update a draft document
// @Description Replaces mutable fields of a Draft; posted documents are immutable
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   documentID path string true "Document ID"
// @Param   document body dto.UpdateDocumentRequest true "Fields to change"
// @Success 200 {object} dto.DocumentResponse "Updated draft"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Router /{documentType}/{documentID} [patch]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	if _, ok := docTypeFromPath(c, logger); !ok {
		return
	}
	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	updateReq := dto.UpdateDocumentRequest{}
	if err := c.ShouldBindJSON(&updateReq); err != nil {
		logger.Warn("Failed to bind JSON for updateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": "validation_failed"})
		return
	}

	resp, err := h.documentService.UpdateDocument(c.Request.Context(), orgID, documentID, updateReq, actorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Document updated", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, resp)
}

// postDocument godoc
// @Summary Post a draft document to the ledger
// @Description Transitions DRAFT -> POSTED and produces a balanced posting batch
// @Tags documents
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   documentID path string true "Document ID"
// @Param   Idempotency-Key header string false "Client idempotency key"
// @Success 200 {object} dto.PostDocumentResponse "Posted document with its batch ID"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not a draft"
// @Failure 422 {object} map[string]string "Period is locked"
// @Router /{documentType}/{documentID}/post [post]
func (h *documentHandler) postDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	if _, ok := docTypeFromPath(c, logger); !ok {
		return
	}
	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	resp, err := h.documentService.PostDocument(c.Request.Context(), orgID, documentID, actorID, idempotencyKeyFromHeader(c))
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Document posted", slog.String("document_id", documentID), slog.String("batch_id", resp.LedgerBatchID))
	c.JSON(http.StatusOK, resp)
}

// voidDocument godoc
// @Summary Void a posted document
// @Description Transitions POSTED -> VOID and writes a compensating reversal batch
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   documentID path string true "Document ID"
// @Param   Idempotency-Key header string false "Client idempotency key"
// @Param   void body dto.VoidDocumentRequest false "Optional reason"
// @Success 200 {object} dto.VoidDocumentResponse "Voided document with its reversal batch ID"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not posted"
// @Failure 422 {object} map[string]string "Period is locked"
// @Router /{documentType}/{documentID}/void [post]
func (h *documentHandler) voidDocument(c *gin.Context) {
	h.reverseDocument(c, false)
}

// bounceDocument godoc
// @Summary Bounce a posted payment
// @Description Transitions POSTED -> BOUNCED for payments whose bank movement failed
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   documentID path string true "Document ID"
// @Param   Idempotency-Key header string false "Client idempotency key"
// @Param   bounce body dto.VoidDocumentRequest false "Optional reason"
// @Success 200 {object} dto.VoidDocumentResponse "Bounced payment with its reversal batch ID"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 409 {object} map[string]string "Document is not posted or not a payment"
// @Router /{documentType}/{documentID}/bounce [post]
func (h *documentHandler) bounceDocument(c *gin.Context) {
	h.reverseDocument(c, true)
}

func (h *documentHandler) reverseDocument(c *gin.Context, bounce bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	if _, ok := docTypeFromPath(c, logger); !ok {
		return
	}
	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	// Body is optional; an empty body means no reason.
	voidReq := dto.VoidDocumentRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&voidReq); err != nil {
			logger.Warn("Failed to bind JSON for reverseDocument", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": "validation_failed"})
			return
		}
	}

	var resp *dto.VoidDocumentResponse
	var err error
	if bounce {
		resp, err = h.documentService.BounceDocument(c.Request.Context(), orgID, documentID, voidReq, actorID, idempotencyKeyFromHeader(c))
	} else {
		resp, err = h.documentService.VoidDocument(c.Request.Context(), orgID, documentID, voidReq, actorID, idempotencyKeyFromHeader(c))
	}
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Document reversed",
		slog.String("document_id", documentID),
		slog.String("status", string(resp.Document.Status)),
		slog.String("reversal_batch_id", resp.ReversalBatchID))
	c.JSON(http.StatusOK, resp)
}

// getDocument godoc
// @Summary Get a document
// @Description Retrieves a document with its lines
// @Tags documents
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse "Document"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /{documentType}/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	if _, ok := docTypeFromPath(c, logger); !ok {
		return
	}
	orgID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	resp, err := h.documentService.GetDocumentByID(c.Request.Context(), orgID, documentID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listDocuments godoc
// @Summary List documents of a type
// @Description Retrieves a token-paginated list of documents, newest first
// @Tags documents
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListDocumentsResponse "Document page"
// @Router /{documentType} [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	docType, ok := docTypeFromPath(c, logger)
	if !ok {
		return
	}
	orgID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	params := dto.ListDocumentsParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit", "code": "validation_failed"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), orgID, docType, params)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getDocumentLedger godoc
// @Summary Get a document's ledger batches
// @Description Retrieves every posting batch (posting and reversals) a document has produced
// @Tags documents
// @Produce  json
// @Param   documentType path string true "Document type segment"
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentLedgerResponse "Ledger batches"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /{documentType}/{documentID}/ledger [get]
func (h *documentHandler) getDocumentLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	if _, ok := docTypeFromPath(c, logger); !ok {
		return
	}
	orgID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	resp, err := h.documentService.GetDocumentLedger(c.Request.Context(), orgID, documentID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerDocumentRoutes registers document lifecycle routes
func registerDocumentRoutes(group *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	docs := group.Group("/:documentType")
	{
		docs.POST("", h.createDocument)
		docs.GET("", h.listDocuments)
		docs.GET("/:documentID", h.getDocument)
		docs.PATCH("/:documentID", h.updateDocument)
		docs.POST("/:documentID/post", h.postDocument)
		docs.POST("/:documentID/void", h.voidDocument)
		docs.POST("/:documentID/bounce", h.bounceDocument)
		docs.GET("/:documentID/ledger", h.getDocumentLedger)
	}
}
