package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/app/repositories"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
	"github.com/aboadu/classtrack/internal/pkg/logger"
	"github.com/aboadu/classtrack/internal/pkg/sessioncode"
)

// SessionService defines the interface for the session registry
type SessionService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, code string) (*models.Session, error)
}

// sessionServiceImpl implements SessionService
type sessionServiceImpl struct {
	sessions    repositories.SessionStore
	codes       *sessioncode.Generator
	maxAttempts int
	now         func() time.Time
}

// NewSessionService creates a new SessionService. maxAttempts bounds code
// regeneration when a freshly drawn code collides with an existing session.
func NewSessionService(sessions repositories.SessionStore, maxAttempts int) SessionService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &sessionServiceImpl{
		sessions:    sessions,
		codes:       sessioncode.NewGenerator(),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// CreateSession mints a session record with a unique code and a check-in
// window of [now, now+duration). Collisions with existing codes, expired
// ones included, trigger regeneration; the attempt budget is fixed, and
// exhausting it is an operational signal that the code alphabet or length
// needs revisiting.
func (s *sessionServiceImpl) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if req.CourseCode == "" {
		return nil, apperrors.NewInvalidRequestError("courseCode is required")
	}
	if req.DurationSeconds < 1 {
		return nil, apperrors.NewInvalidRequestError("durationSeconds must be positive")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(time.Duration(req.DurationSeconds) * time.Second)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("error generating session code: %w", err)
		}

		session := &models.Session{
			Code:       code,
			CourseCode: req.CourseCode,
			CourseName: req.CourseName,
			Lecturer:   req.Lecturer,
			IssuedAt:   issuedAt,
			ExpiresAt:  expiresAt,
		}

		err = s.sessions.Insert(ctx, session)
		if errors.Is(err, apperrors.ErrSessionCodeTaken) {
			logger.Warn().Int("attempt", attempt).Str("courseCode", req.CourseCode).Msg("Session code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error persisting session: %w", err)
		}

		return toSessionResponse(session)
	}

	logger.Error().Int("attempts", s.maxAttempts).Msg("Session code generation exhausted")
	return nil, apperrors.ErrCodeGenerationExhausted
}

// GetSession looks up a session by code, expired sessions included.
func (s *sessionServiceImpl) GetSession(ctx context.Context, code string) (*models.Session, error) {
	session, err := s.sessions.GetByCode(ctx, sessioncode.Normalize(code))
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	if session == nil {
		return nil, apperrors.ErrSessionNotFound
	}
	return session, nil
}

func toSessionResponse(session *models.Session) (*dto.SessionResponse, error) {
	payload, err := json.Marshal(dto.QRPayload{
		SessionCode: session.Code,
		CourseCode:  session.CourseCode,
		CourseName:  session.CourseName,
		Lecturer:    session.Lecturer,
		ExpiresAt:   session.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding QR payload: %w", err)
	}

	return &dto.SessionResponse{
		SessionCode: session.Code,
		CourseCode:  session.CourseCode,
		CourseName:  session.CourseName,
		Lecturer:    session.Lecturer,
		IssuedAt:    session.IssuedAt,
		ExpiresAt:   session.ExpiresAt,
		QRPayload:   string(payload),
	}, nil
}
