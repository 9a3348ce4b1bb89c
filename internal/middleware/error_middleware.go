package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
	"github.com/aboadu/classtrack/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Validation
// errors carry their specific reason to the caller; storage and unknown
// errors are logged in full server-side but surfaced generically so the
// response never leaks storage implementation details.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRequest), errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()),
		))
	case errors.Is(err, apperrors.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeSessionNotFound, "Session not found"),
		))
	case errors.Is(err, apperrors.ErrSessionExpired):
		c.JSON(http.StatusGone, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeSessionExpired, "Session has expired"),
		))
	case errors.Is(err, apperrors.ErrCodeGenerationExhausted):
		logger.Error().Err(err).Msg("Session code generation exhausted")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeCodeGeneration, "Could not allocate a session code").
				WithSeverity(dto.ErrorSeverityCritical),
		))
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		logger.Error().Err(err).Msg("Store unavailable")
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeStoreUnavailable, "Service temporarily unavailable, retry shortly"),
		))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"),
		))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		))
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed"),
		))
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
	}
}
