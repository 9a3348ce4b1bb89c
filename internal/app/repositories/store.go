package repositories

import (
	"context"
	"time"

	"github.com/aboadu/classtrack/internal/app/models"
)

// CheckInQuery describes a filtered slice of the attendance log. Both string
// filters are case-insensitive substring matches; From/To bound the entry
// timestamp as a half-open [From, To) range when set. All filters combine
// with AND.
type CheckInQuery struct {
	CourseCode  string
	SessionCode string
	From        *time.Time
	To          *time.Time
	Offset      uint64
	Limit       int
}

// SessionStore persists attendance sessions. Insert must fail with
// apperrors.ErrSessionCodeTaken when the code is already in use, including by
// an expired session; codes are never reused so old logs stay unambiguous.
type SessionStore interface {
	Insert(ctx context.Context, session *models.Session) error
	GetByCode(ctx context.Context, code string) (*models.Session, error)
}

// CheckInStore persists attendance log entries. InsertIfAbsent must be
// atomic on (sessionCode, studentId): two racing inserts for the same pair
// resolve to exactly one stored entry, and both callers receive it. List
// must derive its total count from the same predicate as the page slice.
type CheckInStore interface {
	InsertIfAbsent(ctx context.Context, entry *models.CheckIn) (stored *models.CheckIn, created bool, err error)
	List(ctx context.Context, q CheckInQuery) (entries []models.CheckIn, totalCount int64, err error)
}

// Stores bundles the storage capabilities the application needs. The
// concrete set (Postgres or in-memory) is chosen once at startup.
type Stores struct {
	Sessions SessionStore
	CheckIns CheckInStore
}
