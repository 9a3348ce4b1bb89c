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

var checkInColumns = []string{
	"id", "student_id", "session_code", "course_code", "course_name",
	"lecturer", "centre", "location", "client_time", "recorded_at",
}

// CheckInRepository handles database operations for attendance log entries.
type CheckInRepository struct {
	DB      *pgxpool.Pool
	timeout time.Duration
}

// NewCheckInRepository creates a new CheckInRepository.
func NewCheckInRepository(db *pgxpool.Pool, timeout time.Duration) *CheckInRepository {
	return &CheckInRepository{DB: db, timeout: timeout}
}

// InsertIfAbsent records an entry unless one already exists for the same
// (session_code, student_id) pair. The race between two concurrent inserts
// is resolved by the unique index, not by a prior existence check: the
// insert runs with ON CONFLICT DO NOTHING and the surviving row is read
// back, so both racing callers see the single stored entry.
func (r *CheckInRepository) InsertIfAbsent(ctx context.Context, entry *models.CheckIn) (*models.CheckIn, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	sqlStr, args, err := squirrel.Insert("checkins").
		Columns(checkInColumns...).
		Values(entry.ID, entry.StudentID, entry.SessionCode, entry.CourseCode, entry.CourseName,
			entry.Lecturer, entry.Centre, entry.Location, entry.ClientTime, entry.Timestamp).
		Suffix("ON CONFLICT (session_code, student_id) DO NOTHING RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert check-in SQL")
		return nil, false, err
	}

	var insertedID string
	err = r.DB.QueryRow(ctx, sqlStr, args...).Scan(&insertedID)
	if err == nil {
		return entry, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if dberrors.IsUnavailable(err) {
			return nil, false, apperrors.NewStoreUnavailableError(err)
		}
		logger.Error().Err(err).Str("sessionCode", entry.SessionCode).Msg("Error executing insert check-in query")
		return nil, false, err
	}

	// Conflict path: the pair already has an entry, return it unchanged.
	existing, err := r.getByPair(ctx, entry.SessionCode, entry.StudentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *CheckInRepository) getByPair(ctx context.Context, sessionCode, studentID string) (*models.CheckIn, error) {
	sqlStr, args, err := squirrel.Select(checkInColumns...).
		From("checkins").
		Where(squirrel.Eq{"session_code": sessionCode, "student_id": studentID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get check-in by pair SQL")
		return nil, err
	}

	entry, err := scanCheckIn(r.DB.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if dberrors.IsUnavailable(err) {
			return nil, apperrors.NewStoreUnavailableError(err)
		}
		logger.Error().Err(err).Str("sessionCode", sessionCode).Msg("Error reading back existing check-in")
		return nil, err
	}
	return entry, nil
}

// List returns one page of entries plus the exact total under the same
// predicate. Entries are sorted by recorded_at DESC with id DESC as a
// deterministic tie-break so pagination never duplicates or skips a row at a
// page boundary.
func (r *CheckInRepository) List(ctx context.Context, q CheckInQuery) ([]models.CheckIn, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	countBuilder := applyCheckInFilters(squirrel.Select("count(*)").From("checkins"), q)
	countSql, countArgs, err := countBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check-in count SQL")
		return nil, 0, err
	}

	var totalCount int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&totalCount); err != nil {
		if dberrors.IsUnavailable(err) {
			return nil, 0, apperrors.NewStoreUnavailableError(err)
		}
		logger.Error().Err(err).Msg("Error executing check-in count query")
		return nil, 0, err
	}

	if totalCount == 0 {
		return []models.CheckIn{}, 0, nil
	}

	sqlStr, args, err := applyCheckInFilters(squirrel.Select(checkInColumns...).From("checkins"), q).
		OrderBy("recorded_at DESC", "id DESC").
		Limit(uint64(q.Limit)).
		Offset(q.Offset).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building check-in list SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		if dberrors.IsUnavailable(err) {
			return nil, 0, apperrors.NewStoreUnavailableError(err)
		}
		logger.Error().Err(err).Msg("Error executing check-in list query")
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]models.CheckIn, 0, q.Limit)
	for rows.Next() {
		entry, err := scanCheckIn(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning check-in row")
			return nil, 0, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		if dberrors.IsUnavailable(err) {
			return nil, 0, apperrors.NewStoreUnavailableError(err)
		}
		return nil, 0, err
	}

	return entries, totalCount, nil
}

// applyCheckInFilters applies the query predicate identically for the count
// and the page slice.
func applyCheckInFilters(b squirrel.SelectBuilder, q CheckInQuery) squirrel.SelectBuilder {
	if q.CourseCode != "" {
		b = b.Where(squirrel.ILike{"course_code": "%" + q.CourseCode + "%"})
	}
	if q.SessionCode != "" {
		b = b.Where(squirrel.ILike{"session_code": "%" + q.SessionCode + "%"})
	}
	if q.From != nil {
		b = b.Where(squirrel.GtOrEq{"recorded_at": *q.From})
	}
	if q.To != nil {
		b = b.Where(squirrel.Lt{"recorded_at": *q.To})
	}
	return b
}

func scanCheckIn(row pgx.Row) (*models.CheckIn, error) {
	var entry models.CheckIn
	err := row.Scan(
		&entry.ID, &entry.StudentID, &entry.SessionCode, &entry.CourseCode, &entry.CourseName,
		&entry.Lecturer, &entry.Centre, &entry.Location, &entry.ClientTime, &entry.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
