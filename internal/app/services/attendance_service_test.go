package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aboadu/classtrack/internal/app/models"
	"github.com/aboadu/classtrack/internal/app/models/dto"
	"github.com/aboadu/classtrack/internal/app/repositories/memstore"
	"github.com/aboadu/classtrack/internal/pkg/apperrors"
)

func newTestAttendanceService(t *testing.T, now time.Time) (*attendanceServiceImpl, *memstore.SessionStore) {
	t.Helper()
	sessions := memstore.NewSessionStore()
	svc := NewAttendanceService(sessions, memstore.NewCheckInStore(), 100000).(*attendanceServiceImpl)
	svc.now = fixedClock(now)
	return svc, sessions
}

func seedSession(t *testing.T, sessions *memstore.SessionStore, code string, issuedAt time.Time, duration time.Duration) *models.Session {
	t.Helper()
	session := &models.Session{
		Code:       code,
		CourseCode: "BIT364",
		CourseName: "Web Technologies",
		Lecturer:   "Dr. A. Mensah",
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(duration),
	}
	require.NoError(t, sessions.Insert(context.Background(), session))
	return session
}

func TestCheckIn_Validation(t *testing.T) {
	svc, _ := newTestAttendanceService(t, time.Now().UTC())

	_, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{SessionCode: "K3WQ7N-XR2MP9"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.CheckIn(context.Background(), &dto.CheckInRequest{StudentID: "PS/ITC/19/0042"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestCheckIn_UnknownSession(t *testing.T) {
	svc, _ := newTestAttendanceService(t, time.Now().UTC())

	_, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID:   "PS/ITC/19/0042",
		SessionCode: "AAAAAA-AAAAAA",
	})
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestCheckIn_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(5 * time.Minute)

	t.Run("just inside the window", func(t *testing.T) {
		svc, sessions := newTestAttendanceService(t, expiresAt.Add(-time.Millisecond))
		seedSession(t, sessions, "K3WQ7N-XR2MP9", issuedAt, 5*time.Minute)

		result, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
			StudentID:   "PS/ITC/19/0042",
			SessionCode: "K3WQ7N-XR2MP9",
		})
		require.NoError(t, err)
		assert.True(t, result.Recorded)
		assert.False(t, result.AlreadyRecorded)
	})

	t.Run("exactly at expiry is rejected", func(t *testing.T) {
		svc, sessions := newTestAttendanceService(t, expiresAt)
		seedSession(t, sessions, "K3WQ7N-XR2MP9", issuedAt, 5*time.Minute)

		_, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
			StudentID:   "PS/ITC/19/0042",
			SessionCode: "K3WQ7N-XR2MP9",
		})
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})

	t.Run("after expiry is rejected", func(t *testing.T) {
		svc, sessions := newTestAttendanceService(t, expiresAt.Add(time.Millisecond))
		seedSession(t, sessions, "K3WQ7N-XR2MP9", issuedAt, 5*time.Minute)

		_, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
			StudentID:   "PS/ITC/19/0042",
			SessionCode: "K3WQ7N-XR2MP9",
		})
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	})
}

func TestCheckIn_Idempotent(t *testing.T) {
	now := time.Date(2024, time.March, 4, 9, 1, 0, 0, time.UTC)
	svc, sessions := newTestAttendanceService(t, now)
	seedSession(t, sessions, "K3WQ7N-XR2MP9", now.Add(-time.Minute), 5*time.Minute)

	req := &dto.CheckInRequest{
		StudentID:   "PS/ITC/19/0042",
		SessionCode: "K3WQ7N-XR2MP9",
		Centre:      "Kumasi",
	}

	first, err := svc.CheckIn(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, first.Recorded)
	assert.False(t, first.AlreadyRecorded)

	// Retried submission, later clock. The original entry comes back unchanged.
	svc.now = fixedClock(now.Add(30 * time.Second))
	second, err := svc.CheckIn(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Recorded)
	assert.True(t, second.AlreadyRecorded)
	assert.Equal(t, first.Entry, second.Entry)

	page, err := svc.QueryLogs(context.Background(), dto.LogFilter{SessionCode: "K3WQ7N-XR2MP9"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestCheckIn_SessionCodeNormalized(t *testing.T) {
	now := time.Date(2024, time.March, 4, 9, 1, 0, 0, time.UTC)
	svc, sessions := newTestAttendanceService(t, now)
	seedSession(t, sessions, "K3WQ7N-XR2MP9", now.Add(-time.Minute), 5*time.Minute)

	result, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID:   "PS/ITC/19/0042",
		SessionCode: " k3wq7n-xr2mp9 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "K3WQ7N-XR2MP9", result.Entry.SessionCode)
}

func TestCheckIn_DenormalizesCourseMetadata(t *testing.T) {
	now := time.Date(2024, time.March, 4, 9, 1, 0, 0, time.UTC)
	svc, sessions := newTestAttendanceService(t, now)

	// Session record lacks the course name; the scanned payload supplies it.
	session := &models.Session{
		Code:       "K3WQ7N-XR2MP9",
		CourseCode: "BIT364",
		IssuedAt:   now.Add(-time.Minute),
		ExpiresAt:  now.Add(4 * time.Minute),
	}
	require.NoError(t, sessions.Insert(context.Background(), session))

	result, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID:   "PS/ITC/19/0042",
		SessionCode: "K3WQ7N-XR2MP9",
		CourseCode:  "IGNORED",
		CourseName:  "Web Technologies",
		Lecturer:    "Dr. A. Mensah",
		Centre:      "Kumasi",
	})
	require.NoError(t, err)

	// Session wins where it has a value, request fills the gaps.
	assert.Equal(t, "BIT364", result.Entry.CourseCode)
	assert.Equal(t, "Web Technologies", result.Entry.CourseName)
	assert.Equal(t, "Dr. A. Mensah", result.Entry.Lecturer)
	assert.Equal(t, "Kumasi", result.Entry.Centre)
	assert.Equal(t, now, result.Entry.Timestamp)
}

func seedLog(t *testing.T, svc *attendanceServiceImpl, sessions *memstore.SessionStore, code, courseCode string, base time.Time, students int) {
	t.Helper()
	session := &models.Session{
		Code:       code,
		CourseCode: courseCode,
		IssuedAt:   base,
		ExpiresAt:  base.Add(time.Hour),
	}
	require.NoError(t, sessions.Insert(context.Background(), session))

	for i := 0; i < students; i++ {
		svc.now = fixedClock(base.Add(time.Duration(i) * time.Second))
		_, err := svc.CheckIn(context.Background(), &dto.CheckInRequest{
			StudentID:   fmt.Sprintf("PS/ITC/19/%04d", i),
			SessionCode: code,
		})
		require.NoError(t, err)
	}
}

func TestQueryLogs_PaginationCompleteness(t *testing.T) {
	base := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, sessions := newTestAttendanceService(t, base)
	seedLog(t, svc, sessions, "K3WQ7N-XR2MP9", "BIT364", base, 37)

	seen := make(map[string]bool)
	page := 1
	for {
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{Page: page, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(37), result.TotalCount)
		assert.Equal(t, 4, result.TotalPages)

		for _, entry := range result.Entries {
			assert.False(t, seen[entry.ID], "entry %s appeared on two pages", entry.ID)
			seen[entry.ID] = true
		}

		if page >= result.TotalPages {
			assert.Len(t, result.Entries, 7)
			break
		}
		assert.Len(t, result.Entries, 10)
		page++
	}

	assert.Len(t, seen, 37)
}

func TestQueryLogs_OrderedNewestFirst(t *testing.T) {
	base := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, sessions := newTestAttendanceService(t, base)
	seedLog(t, svc, sessions, "K3WQ7N-XR2MP9", "BIT364", base, 20)

	result, err := svc.QueryLogs(context.Background(), dto.LogFilter{PageSize: 20})
	require.NoError(t, err)
	require.Len(t, result.Entries, 20)

	for i := 1; i < len(result.Entries); i++ {
		prev, cur := result.Entries[i-1], result.Entries[i]
		assert.False(t, prev.Timestamp.Before(cur.Timestamp),
			"entries out of order at index %d", i)
	}
}

func TestQueryLogs_Filters(t *testing.T) {
	base := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	svc, sessions := newTestAttendanceService(t, base)
	seedLog(t, svc, sessions, "K3WQ7N-XR2MP9", "BIT364", base, 5)
	seedLog(t, svc, sessions, "MNPQRS-TUVWXY", "ACC101", base.AddDate(0, 0, 14), 3)

	t.Run("course substring match is case-insensitive", func(t *testing.T) {
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{CourseCode: "bit"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.TotalCount)
	})

	t.Run("session code filter", func(t *testing.T) {
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{SessionCode: "MNPQRS-TUVWXY"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.TotalCount)
	})

	t.Run("week bucket", func(t *testing.T) {
		// 2024-03-04 is a Monday; the week covers only the first session.
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{Date: "2024-03-06", Bucket: "week"})
		require.NoError(t, err)
		assert.Equal(t, int64(5), result.TotalCount)
	})

	t.Run("month bucket covers both sessions", func(t *testing.T) {
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{Date: "2024-03-10", Bucket: "month"})
		require.NoError(t, err)
		assert.Equal(t, int64(8), result.TotalCount)
	})

	t.Run("malformed date is ignored", func(t *testing.T) {
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{Date: "04-03-2024", Bucket: "day"})
		require.NoError(t, err)
		assert.Equal(t, int64(8), result.TotalCount)
	})

	t.Run("no match yields one empty page", func(t *testing.T) {
		result, err := svc.QueryLogs(context.Background(), dto.LogFilter{CourseCode: "ZZZ999"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.TotalCount)
		assert.Equal(t, 1, result.TotalPages)
		assert.Empty(t, result.Entries)
	})
}

// TestAttendanceFlow walks the whole lecture flow: the lecturer mints a
// session, students scan and check in (one of them twice), and the log and
// export reflect exactly one entry per student.
func TestAttendanceFlow(t *testing.T) {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	sessions := memstore.NewSessionStore()
	checkIns := memstore.NewCheckInStore()

	sessionSvc := NewSessionService(sessions, 5).(*sessionServiceImpl)
	sessionSvc.now = fixedClock(start)
	attendanceSvc := NewAttendanceService(sessions, checkIns, 100000).(*attendanceServiceImpl)

	created, err := sessionSvc.CreateSession(context.Background(), &dto.CreateSessionRequest{
		CourseCode:      "BIT364",
		CourseName:      "Web Technologies",
		Lecturer:        "Dr. A. Mensah",
		DurationSeconds: 600,
	})
	require.NoError(t, err)

	students := []string{"PS/ITC/19/0001", "PS/ITC/19/0002", "PS/ITC/19/0003"}
	for i, studentID := range students {
		attendanceSvc.now = fixedClock(start.Add(time.Duration(i+1) * time.Minute))
		result, err := attendanceSvc.CheckIn(context.Background(), &dto.CheckInRequest{
			StudentID:   studentID,
			SessionCode: created.SessionCode,
			Centre:      "Kumasi",
		})
		require.NoError(t, err)
		assert.False(t, result.AlreadyRecorded)
	}

	// A flaky network makes the second student resubmit.
	attendanceSvc.now = fixedClock(start.Add(5 * time.Minute))
	retry, err := attendanceSvc.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID:   students[1],
		SessionCode: created.SessionCode,
	})
	require.NoError(t, err)
	assert.True(t, retry.AlreadyRecorded)

	// A latecomer after the window closes is turned away.
	attendanceSvc.now = fixedClock(start.Add(11 * time.Minute))
	_, err = attendanceSvc.CheckIn(context.Background(), &dto.CheckInRequest{
		StudentID:   "PS/ITC/19/0099",
		SessionCode: created.SessionCode,
	})
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	page, err := attendanceSvc.QueryLogs(context.Background(), dto.LogFilter{CourseCode: "BIT364"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	for _, entry := range page.Entries {
		assert.Equal(t, "BIT364", entry.CourseCode)
		assert.Equal(t, "Web Technologies", entry.CourseName)
	}
}
