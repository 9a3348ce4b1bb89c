package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/app/services"
	"github.com/aboadu/classtrack/internal/middleware"
)

// SessionController handles session registry operations
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// CreateSession handles minting a new attendance session
// @Summary Create attendance session
// @Description Mints a session with a unique code and a bounded check-in window; returns the QR-renderable payload
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session parameters"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 500 {object} dto.ErrorResponse "Code generation exhausted or internal error"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	session, err := c.sessionService.CreateSession(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(session))
}

// GetSession handles looking up a session by its code
// @Summary Get session by code
// @Description Retrieves a session record, expired sessions included
// @Tags sessions
// @Produce json
// @Param code path string true "Session code"
// @Success 200 {object} dto.APIResponse{data=models.Session} "Session retrieved"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{code} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.sessionService.GetSession(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session))
}
