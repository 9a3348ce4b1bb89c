package dto

import "time"

// CreateSessionRequest is the body for minting a new attendance session
type CreateSessionRequest struct {
	CourseCode      string `json:"courseCode" binding:"required,min=2,max=32" example:"BIT364"`
	CourseName      string `json:"courseName" binding:"max=255" example:"Web Technologies"`
	Lecturer        string `json:"lecturer" binding:"max=255" example:"Dr. A. Mensah"`
	DurationSeconds int64  `json:"durationSeconds" binding:"required,min=1,max=86400" example:"300"`
}

// SessionResponse describes a minted session. QRPayload carries the same
// fields serialized as compact JSON, ready to be rendered into a scannable
// code by the client.
type SessionResponse struct {
	SessionCode string    `json:"sessionCode" example:"K3WQ7N-XR2MP9"`
	CourseCode  string    `json:"courseCode" example:"BIT364"`
	CourseName  string    `json:"courseName" example:"Web Technologies"`
	Lecturer    string    `json:"lecturer" example:"Dr. A. Mensah"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	QRPayload   string    `json:"qrPayload"`
}

// QRPayload is the scannable representation of a session. Students that scan
// it submit these fields verbatim with their check-in, which lets the entry
// stay self-describing when the session record lacks optional metadata.
type QRPayload struct {
	SessionCode string `json:"sessionCode"`
	CourseCode  string `json:"courseCode"`
	CourseName  string `json:"courseName,omitempty"`
	Lecturer    string `json:"lecturer,omitempty"`
	ExpiresAt   int64  `json:"expiresAt"`
}
