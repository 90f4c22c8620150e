package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
)

// respondError maps an application error onto the HTTP response: a stable
// machine-readable code plus a human-readable message. Internal failures are
// never echoed to the client.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusForError(err)
	code := apperrors.Code(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		if errors.Is(err, apperrors.ErrInvariantViolation) {
			logger.Error("Invariant violation", slog.String("error", err.Error()), slog.Bool("alert", true))
		} else {
			logger.Error("Request failed", slog.String("error", err.Error()))
		}
		message = "internal error"
	} else {
		logger.Warn("Request rejected", slog.String("error", err.Error()), slog.String("code", code))
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrSerialization):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrLocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// idempotencyKeyFromHeader returns the Idempotency-Key header, or nil when the
// client did not send one.
func idempotencyKeyFromHeader(c *gin.Context) *string {
	key := c.GetHeader("Idempotency-Key")
	if key == "" {
		return nil
	}
	return &key
}
