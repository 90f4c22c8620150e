package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// reconciliationHandler handles HTTP requests for bank reconciliation.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// createSession godoc
// @Summary Open a reconciliation session
// @Description Opens a matching workspace for one bank account and statement period
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   session body dto.CreateSessionRequest true "Session"
// @Success 201 {object} dto.SessionResponse "Opened session"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Overlapping session period"
// @Router /reconciliation-sessions [post]
func (h *reconciliationHandler) createSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	createReq := dto.CreateSessionRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Warn("Failed to bind JSON for createSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": "validation_failed"})
		return
	}

	resp, err := h.reconciliationService.CreateSession(c.Request.Context(), orgID, createReq, actorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getSession godoc
// @Summary Get a reconciliation session
// @Tags reconciliation
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse "Session"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /reconciliation-sessions/{sessionID} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	orgID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	resp, err := h.reconciliationService.GetSessionByID(c.Request.Context(), orgID, sessionID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// matchTransaction godoc
// @Summary Match a bank transaction to a posting batch
// @Description Records a match; a bank transaction may be matched at most once
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   match body dto.MatchTransactionRequest true "Match"
// @Success 201 {object} dto.MatchResponse "Recorded match"
// @Failure 400 {object} map[string]string "Transaction outside session scope"
// @Failure 409 {object} map[string]string "Transaction already matched or session closed"
// @Router /reconciliation-sessions/{sessionID}/match [post]
func (h *reconciliationHandler) matchTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	matchReq := dto.MatchTransactionRequest{}
	if err := c.ShouldBindJSON(&matchReq); err != nil {
		logger.Warn("Failed to bind JSON for matchTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": "validation_failed"})
		return
	}

	resp, err := h.reconciliationService.MatchTransaction(c.Request.Context(), orgID, sessionID, matchReq, actorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// unmatchTransaction godoc
// @Summary Remove a match from an open session
// @Tags reconciliation
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   bankTransactionID path string true "Bank transaction ID"
// @Success 204 "Match removed"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Session closed"
// @Router /reconciliation-sessions/{sessionID}/match/{bankTransactionID} [delete]
func (h *reconciliationHandler) unmatchTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")
	bankTransactionID := c.Param("bankTransactionID")

	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.UnmatchTransaction(c.Request.Context(), orgID, sessionID, bankTransactionID, actorID); err != nil {
		respondError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listMatches godoc
// @Summary List the matches recorded in a session
// @Tags reconciliation
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.ListMatchesResponse "Recorded matches"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /reconciliation-sessions/{sessionID}/matches [get]
func (h *reconciliationHandler) listMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	orgID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	resp, err := h.reconciliationService.ListMatches(c.Request.Context(), orgID, sessionID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// closeSession godoc
// @Summary Close a reconciliation session
// @Description Flips an open session to CLOSED; closing twice is a conflict
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   close body dto.CloseSessionRequest false "Optional closing balance correction"
// @Success 200 {object} dto.SessionResponse "Closed session"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session already closed"
// @Router /reconciliation-sessions/{sessionID}/close [post]
func (h *reconciliationHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	orgID, actorID, ok := requestScope(c, logger)
	if !ok {
		return
	}

	closeReq := dto.CloseSessionRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&closeReq); err != nil {
			logger.Warn("Failed to bind JSON for closeSession", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "code": "validation_failed"})
			return
		}
	}

	resp, err := h.reconciliationService.CloseSession(c.Request.Context(), orgID, sessionID, closeReq, actorID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// suggestMatches godoc
// @Summary Suggest matches for a session
// @Description Pairs unmatched bank transactions with unmatched batches by exact amount within the date window; read-only
// @Tags reconciliation
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.ListSuggestionsResponse "Candidate pairings"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /reconciliation-sessions/{sessionID}/suggestions [get]
func (h *reconciliationHandler) suggestMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("sessionID")

	orgID, _, ok := requestScope(c, logger)
	if !ok {
		return
	}

	resp, err := h.reconciliationService.SuggestMatches(c.Request.Context(), orgID, sessionID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerReconciliationRoutes registers reconciliation routes
func registerReconciliationRoutes(group *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	sessions := group.Group("/reconciliation-sessions")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:sessionID", h.getSession)
		sessions.POST("/:sessionID/match", h.matchTransaction)
		sessions.DELETE("/:sessionID/match/:bankTransactionID", h.unmatchTransaction)
		sessions.GET("/:sessionID/matches", h.listMatches)
		sessions.POST("/:sessionID/close", h.closeSession)
		sessions.GET("/:sessionID/suggestions", h.suggestMatches)
	}
}
