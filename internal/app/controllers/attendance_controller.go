package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/app/services"
	"github.com/aboadu/classtrack/internal/middleware"
	"github.com/aboadu/classtrack/internal/pkg/helpers"
)

// AttendanceController handles check-in recording, log queries and exports
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
	}
}

// CheckIn handles recording a student's attendance against a session
// @Summary Check in to a session
// @Description Records attendance at most once per (session, student); duplicate submissions return the original entry with alreadyRecorded set
// @Tags checkins
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Check-in data"
// @Success 200 {object} dto.APIResponse{data=dto.CheckInResult} "Check-in recorded or already present"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 410 {object} dto.ErrorResponse "Session expired"
// @Router /checkins [post]
func (c *AttendanceController) CheckIn(ctx *gin.Context) {
	var req dto.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// Students only ever check in as themselves; the studentId on the wire
	// is overridden by the authenticated identity. Lecturers and admins may
	// submit on a student's behalf.
	if role, exists := ctx.Get("roleType"); exists && role == string(models.RoleStudent) {
		if principal, ok := ctx.Get("userID"); ok {
			if id, ok := principal.(string); ok && id != "" {
				req.StudentID = id
			}
		}
	}

	result, err := c.attendanceService.CheckIn(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	middleware.CountCheckIn(result.AlreadyRecorded)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetLogs handles paginated, filtered attendance log queries
// @Summary Query attendance logs
// @Description Retrieves a page of check-in entries, newest first, with exact totals
// @Tags checkins
// @Produce json
// @Param courseCode query string false "Course code substring filter (case-insensitive)"
// @Param sessionCode query string false "Session code substring filter (case-insensitive)"
// @Param date query string false "Anchor date (YYYY-MM-DD); malformed dates are ignored"
// @Param bucket query string false "Range mode around the anchor date (day, week, month)"
// @Param page query int false "Page number, 1-based (default: 1)"
// @Param pageSize query int false "Page size, clamped to 1-100 (default: 10)"
// @Success 200 {object} dto.APIResponse{data=dto.LogPage} "Logs retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /checkins [get]
func (c *AttendanceController) GetLogs(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	logs, err := c.attendanceService.QueryLogs(ctx.Request.Context(), dto.LogFilter{
		CourseCode:  ctx.Query("courseCode"),
		SessionCode: ctx.Query("sessionCode"),
		Date:        ctx.Query("date"),
		Bucket:      ctx.Query("bucket"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// ExportLogs handles CSV export of the filtered attendance log
// @Summary Export attendance logs as CSV
// @Description Renders everything matching the filters as a CSV attachment
// @Tags checkins
// @Produce text/csv
// @Param courseCode query string false "Course code substring filter (case-insensitive)"
// @Param sessionCode query string false "Session code substring filter (case-insensitive)"
// @Param date query string false "Anchor date (YYYY-MM-DD); malformed dates are ignored"
// @Param bucket query string false "Range mode around the anchor date (day, week, month)"
// @Success 200 {string} string "CSV content"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /checkins/export [get]
func (c *AttendanceController) ExportLogs(ctx *gin.Context) {
	csv, err := c.attendanceService.ExportCSV(ctx.Request.Context(), dto.LogFilter{
		CourseCode:  ctx.Query("courseCode"),
		SessionCode: ctx.Query("sessionCode"),
		Date:        ctx.Query("date"),
		Bucket:      ctx.Query("bucket"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("attendance-logs-%s.csv", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
