package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/app/repositories"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
	"github.com/aboadu/classtrack/internal/pkg/helpers"
	"github.com/aboadu/classtrack/internal/pkg/logger"
	"github.com/aboadu/classtrack/internal/pkg/sessioncode"
)

// AttendanceService defines the interface for check-in recording and
// attendance log queries
type AttendanceService interface {
	CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResult, error)
	QueryLogs(ctx context.Context, filter dto.LogFilter) (*dto.LogPage, error)
	ExportCSV(ctx context.Context, filter dto.LogFilter) (string, error)
}

// attendanceServiceImpl implements AttendanceService
type attendanceServiceImpl struct {
	sessions     repositories.SessionStore
	checkIns     repositories.CheckInStore
	exportRowCap int
	now          func() time.Time
}

// NewAttendanceService creates a new AttendanceService. exportRowCap bounds
// the number of rows a single CSV export will materialize.
func NewAttendanceService(sessions repositories.SessionStore, checkIns repositories.CheckInStore, exportRowCap int) AttendanceService {
	if exportRowCap < 1 {
		exportRowCap = 100000
	}
	return &attendanceServiceImpl{
		sessions:     sessions,
		checkIns:     checkIns,
		exportRowCap: exportRowCap,
		now:          time.Now,
	}
}

// CheckIn records a student's attendance against a session at most once.
// Late check-ins are rejected: attendance integrity depends on bounding
// check-in to the live window, so a session expired at the server clock
// fails with ErrSessionExpired rather than being accepted and flagged.
// Duplicate submissions are not errors; the client may retry on network
// failure and gets the original entry back with alreadyRecorded set.
func (s *attendanceServiceImpl) CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResult, error) {
	if req.StudentID == "" {
		return nil, apperrors.NewInvalidRequestError("studentId is required")
	}
	if req.SessionCode == "" {
		return nil, apperrors.NewInvalidRequestError("sessionCode is required")
	}

	code := sessioncode.Normalize(req.SessionCode)

	session, err := s.sessions.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("error looking up session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}

	now := s.now().UTC()
	if session.ExpiredAt(now) {
		return nil, apperrors.ErrSessionExpired
	}

	// Course metadata is copied from the session record at write time so the
	// entry stays self-describing; request fields (parsed from the scanned
	// payload) only fill gaps the session record leaves open.
	entry := &models.CheckIn{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		SessionCode: code,
		CourseCode:  fallback(session.CourseCode, req.CourseCode),
		CourseName:  fallback(session.CourseName, req.CourseName),
		Lecturer:    fallback(session.Lecturer, req.Lecturer),
		Centre:      req.Centre,
		Location:    req.Location,
		ClientTime:  req.ClientTimestamp,
		Timestamp:   now,
	}

	stored, created, err := s.checkIns.InsertIfAbsent(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error recording check-in: %w", err)
	}

	if !created {
		logger.Debug().Str("sessionCode", code).Str("studentId", req.StudentID).Msg("Duplicate check-in ignored")
	}

	return &dto.CheckInResult{
		Recorded:        true,
		AlreadyRecorded: !created,
		Entry:           *stored,
	}, nil
}

// QueryLogs serves one page of the filtered attendance log with exact totals.
func (s *attendanceServiceImpl) QueryLogs(ctx context.Context, filter dto.LogFilter) (*dto.LogPage, error) {
	page, pageSize := helpers.ClampPageParams(filter.Page, filter.PageSize)
	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)

	query := buildCheckInQuery(filter)
	query.Offset = offset
	query.Limit = limit

	entries, totalCount, err := s.checkIns.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying attendance logs: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalCount, page, pageSize)
	return &dto.LogPage{
		Entries:    entries,
		TotalCount: totalCount,
		TotalPages: pagination.TotalPages,
	}, nil
}

// buildCheckInQuery translates the wire-level filter into a store query.
// A malformed date anchor is ignored rather than failing the query, so a
// bad filter degrades a dashboard render instead of aborting it.
func buildCheckInQuery(filter dto.LogFilter) repositories.CheckInQuery {
	query := repositories.CheckInQuery{
		CourseCode:  filter.CourseCode,
		SessionCode: filter.SessionCode,
	}

	if from, to, ok := helpers.ParseBucketRange(filter.Date, helpers.Bucket(filter.Bucket)); ok {
		query.From = &from
		query.To = &to
	}

	return query
}

func fallback(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}
