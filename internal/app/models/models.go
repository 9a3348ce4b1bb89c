package models

import "time"

// RoleType defines the authenticated principal's role
type RoleType string

const (
	RoleStudent  RoleType = "STUDENT"
	RoleLecturer RoleType = "LECTURER"
	RoleAdmin    RoleType = "ADMIN"
)

// Session is a time-bounded, uniquely coded invitation for students to check
// in to a specific class meeting. Sessions are never mutated after creation;
// a session is live exactly while now falls in [IssuedAt, ExpiresAt). There
// is no stored active/expired flag, liveness is always derived from the
// timestamps so a stored flag can never disagree with the clock.
type Session struct {
	ID         int64     `json:"id"`
	Code       string    `json:"sessionCode"`
	CourseCode string    `json:"courseCode"`
	CourseName string    `json:"courseName"`
	Lecturer   string    `json:"lecturer"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ExpiredAt reports whether the session's check-in window has closed at t.
// The window is half-open: a check-in exactly at ExpiresAt is rejected.
func (s *Session) ExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// CheckIn is a recorded attendance event linking one student to one session.
// Course metadata is copied from the session at write time rather than joined
// at read time, so historical logs stay self-describing even if the session
// record is later pruned or corrected.
type CheckIn struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	SessionCode string     `json:"sessionCode"`
	CourseCode  string     `json:"courseCode"`
	CourseName  string     `json:"courseName"`
	Lecturer    string     `json:"lecturer"`
	Centre      string     `json:"centre"`
	Location    string     `json:"location"`
	// ClientTime is what the device claimed when it submitted the check-in.
	// Informational only; Timestamp is authoritative for all ordering and
	// filtering since client clocks can be manipulated.
	ClientTime *time.Time `json:"clientTime,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
