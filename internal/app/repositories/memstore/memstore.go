// Package memstore provides in-memory implementations of the storage
// interfaces. It backs the "memory" database driver and the service test
// suites; it is selected explicitly at startup, never as a runtime fallback
// when a database connection drops.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/repositories"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
)

// SessionStore is a mutex-guarded in-memory session store.
type SessionStore struct {
	mu     sync.Mutex
	nextID int64
	byCode map[string]models.Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{byCode: make(map[string]models.Session)}
}

// Insert stores a session, failing when the code is taken. The check and the
// write happen under one lock so concurrent inserts of the same code resolve
// to exactly one winner.
func (s *SessionStore) Insert(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[session.Code]; exists {
		return apperrors.ErrSessionCodeTaken
	}

	s.nextID++
	session.ID = s.nextID
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.IssuedAt
	}
	s.byCode[session.Code] = *session
	return nil
}

// GetByCode returns the session with the given code, or (nil, nil).
func (s *SessionStore) GetByCode(ctx context.Context, code string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.byCode[code]
	if !exists {
		return nil, nil
	}
	out := session
	return &out, nil
}

// CheckInStore is a mutex-guarded in-memory attendance log.
type CheckInStore struct {
	mu      sync.Mutex
	entries []models.CheckIn
	byPair  map[string]int
}

// NewCheckInStore creates an empty check-in store.
func NewCheckInStore() *CheckInStore {
	return &CheckInStore{byPair: make(map[string]int)}
}

func pairKey(sessionCode, studentID string) string {
	return sessionCode + "\x00" + studentID
}

// InsertIfAbsent stores the entry unless the (sessionCode, studentId) pair
// already has one; the existing entry is returned unchanged in that case.
func (s *CheckInStore) InsertIfAbsent(ctx context.Context, entry *models.CheckIn) (*models.CheckIn, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(entry.SessionCode, entry.StudentID)
	if idx, exists := s.byPair[key]; exists {
		out := s.entries[idx]
		return &out, false, nil
	}

	s.entries = append(s.entries, *entry)
	s.byPair[key] = len(s.entries) - 1
	out := *entry
	return &out, true, nil
}

// List filters, sorts and slices the log under the same predicate for both
// the page and the total count.
func (s *CheckInStore) List(ctx context.Context, q repositories.CheckInQuery) ([]models.CheckIn, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.CheckIn, 0, len(s.entries))
	for _, entry := range s.entries {
		if !matches(entry, q) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))

	start := int(q.Offset)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if q.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	page := make([]models.CheckIn, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func matches(entry models.CheckIn, q repositories.CheckInQuery) bool {
	if q.CourseCode != "" && !containsFold(entry.CourseCode, q.CourseCode) {
		return false
	}
	if q.SessionCode != "" && !containsFold(entry.SessionCode, q.SessionCode) {
		return false
	}
	if q.From != nil && entry.Timestamp.Before(*q.From) {
		return false
	}
	if q.To != nil && !entry.Timestamp.Before(*q.To) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// NewStores bundles fresh in-memory stores.
func NewStores() *repositories.Stores {
	return &repositories.Stores{
		Sessions: NewSessionStore(),
		CheckIns: NewCheckInStore(),
	}
}
