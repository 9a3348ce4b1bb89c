package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
	"github.com/aboadu/classtrack/internal/pkg/dberrors"
	"github.com/aboadu/classtrack/internal/pkg/logger"
)

const sessionCodeConstraint = "sessions_code_key"

// SessionRepository handles database operations for sessions.
type SessionRepository struct {
	DB      *pgxpool.Pool
	timeout time.Duration
}

// NewSessionRepository creates a new SessionRepository. timeout bounds every
// store round trip.
func NewSessionRepository(db *pgxpool.Pool, timeout time.Duration) *SessionRepository {
	return &SessionRepository{DB: db, timeout: timeout}
}

// Insert persists a new session record. A code collision surfaces as
// apperrors.ErrSessionCodeTaken so the caller can regenerate and retry.
func (r *SessionRepository) Insert(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sqlStr, args, err := squirrel.Insert("sessions").
		Columns("code", "course_code", "course_name", "lecturer", "issued_at", "expires_at").
		Values(session.Code, session.CourseCode, session.CourseName, session.Lecturer, session.IssuedAt, session.ExpiresAt).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert session SQL")
		return err
	}

	err = r.DB.QueryRow(ctx, sqlStr, args...).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, sessionCodeConstraint) {
			return apperrors.ErrSessionCodeTaken
		}
		if dberrors.IsUnavailable(err) {
			return apperrors.NewStoreUnavailableError(err)
		}
		logger.Error().Err(err).Str("code", session.Code).Msg("Error executing insert session query")
		return err
	}

	return nil
}

// GetByCode retrieves a session by its code. Returns (nil, nil) when no
// session with that code was ever issued.
func (r *SessionRepository) GetByCode(ctx context.Context, code string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sqlStr, args, err := squirrel.Select("id", "code", "course_code", "course_name", "lecturer", "issued_at", "expires_at", "created_at").
		From("sessions").
		Where(squirrel.Eq{"code": code}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get session by code SQL")
		return nil, err
	}

	var session models.Session
	err = r.DB.QueryRow(ctx, sqlStr, args...).Scan(
		&session.ID, &session.Code, &session.CourseCode, &session.CourseName,
		&session.Lecturer, &session.IssuedAt, &session.ExpiresAt, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if dberrors.IsUnavailable(err) {
			return nil, apperrors.NewStoreUnavailableError(err)
		}
		logger.Error().Err(err).Str("code", code).Msg("Error executing get session by code query")
		return nil, err
	}

	return &session, nil
}
