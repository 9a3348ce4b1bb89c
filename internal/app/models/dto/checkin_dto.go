package dto

import (
	"time"

	"github.com/aboadu/classtrack/internal/app/models"
)

// CheckInRequest is the body for recording attendance against a session.
// Course fields are optional fallbacks parsed from a scanned QR payload; they
// are only consulted when the session record lacks the same field.
type CheckInRequest struct {
	StudentID   string `json:"studentId" binding:"required,min=1,max=64" example:"PS/ITC/19/0042"`
	SessionCode string `json:"sessionCode" binding:"required,sessioncode" example:"K3WQ7N-XR2MP9"`
	CourseCode  string `json:"courseCode" binding:"max=32"`
	CourseName  string `json:"courseName" binding:"max=255"`
	Lecturer    string `json:"lecturer" binding:"max=255"`
	Centre      string `json:"centre" binding:"max=255" example:"Kumasi"`
	Location    string `json:"location" binding:"max=255"`
	// ClientTimestamp is recorded as informational only and never used for
	// ordering; the server assigns the authoritative timestamp.
	ClientTimestamp *time.Time `json:"clientTimestamp,omitempty"`
}

// CheckInResult reports the outcome of a check-in. AlreadyRecorded is a
// success variant: a retried submission returns the original entry instead
// of an error.
type CheckInResult struct {
	Recorded        bool           `json:"recorded" example:"true"`
	AlreadyRecorded bool           `json:"alreadyRecorded" example:"false"`
	Entry           models.CheckIn `json:"entry"`
}

// LogFilter describes an attendance log query. All filters are optional and
// combined with AND. Date carries a YYYY-MM-DD anchor expanded by Bucket.
type LogFilter struct {
	CourseCode  string
	SessionCode string
	Date        string
	Bucket      string
	Page        int
	PageSize    int
}

// LogPage is one page of attendance log entries with exact totals
type LogPage struct {
	Entries    []models.CheckIn `json:"entries"`
	TotalCount int64            `json:"totalCount" example:"37"`
	TotalPages int              `json:"totalPages" example:"4"`
}
