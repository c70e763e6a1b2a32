package models

import "time"

// MentorSessionStatus marks a mentor's declared state for one date.
type MentorSessionStatus string

const (
	MentorSessionAvailable   MentorSessionStatus = "AVAILABLE"
	MentorSessionUnavailable MentorSessionStatus = "UNAVAILABLE"
)

// Valid reports whether the status is one of the known values.
func (s MentorSessionStatus) Valid() bool {
	return s == MentorSessionAvailable || s == MentorSessionUnavailable
}

// MentorSession is the per-mentor-per-date header. It is created when a
// mentor books availability (or implicitly by a student booking) and is
// garbage-collected when its last attendance row is removed, unless the
// mentor explicitly declared the date UNAVAILABLE.
type MentorSession struct {
	ID         string              `db:"id" json:"id"`
	ChapterID  string              `db:"chapter_id" json:"chapter_id"`
	MentorID   string              `db:"mentor_id" json:"mentor_id"`
	AttendedOn time.Time           `db:"attended_on" json:"attended_on"`
	Status     MentorSessionStatus `db:"status" json:"status"`
	CreatedAt  time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time           `db:"updated_at" json:"updated_at"`
}

// StudentSession is the per-student-per-date header, created lazily the
// first time the student is attached to a session on that date and deleted
// with its last attendance row.
type StudentSession struct {
	ID         string    `db:"id" json:"id"`
	ChapterID  string    `db:"chapter_id" json:"chapter_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	AttendedOn time.Time `db:"attended_on" json:"attended_on"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// SessionAttendance pairs one mentor header with one student header for a
// chapter/date and carries the report lifecycle for that session.
type SessionAttendance struct {
	ID               string     `db:"id" json:"id"`
	ChapterID        string     `db:"chapter_id" json:"chapter_id"`
	AttendedOn       time.Time  `db:"attended_on" json:"attended_on"`
	MentorSessionID  string     `db:"mentor_session_id" json:"mentor_session_id"`
	StudentSessionID string     `db:"student_session_id" json:"student_session_id"`
	HasReport        bool       `db:"has_report" json:"has_report"`
	CompletedOn      *time.Time `db:"completed_on" json:"completed_on"`
	SignedOffOn      *time.Time `db:"signed_off_on" json:"signed_off_on"`
	IsCancelled      bool       `db:"is_cancelled" json:"is_cancelled"`
	Report           *string    `db:"report" json:"report"`
	ReportFeedback   *string    `db:"report_feedback" json:"report_feedback"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// AttendanceDetail joins an attendance row with the people on both headers,
// which is what the roster planner consumes.
type AttendanceDetail struct {
	ID               string    `db:"id" json:"id"`
	ChapterID        string    `db:"chapter_id" json:"chapter_id"`
	AttendedOn       time.Time `db:"attended_on" json:"attended_on"`
	MentorSessionID  string    `db:"mentor_session_id" json:"mentor_session_id"`
	StudentSessionID string    `db:"student_session_id" json:"student_session_id"`
	MentorID         string    `db:"mentor_id" json:"mentor_id"`
	StudentID        string    `db:"student_id" json:"student_id"`
	IsCancelled      bool      `db:"is_cancelled" json:"is_cancelled"`
	HasReport        bool      `db:"has_report" json:"has_report"`
}

// CancelledAttendance is returned by the cancel operation so callers can
// refresh the view the booking came from.
type CancelledAttendance struct {
	ChapterID  string    `json:"chapter_id"`
	MentorID   string    `json:"mentor_id"`
	AttendedOn time.Time `json:"attended_on"`
}

// RecordOutcome tags whether a find-or-create hit an existing row.
type RecordOutcome string

const (
	RecordFound   RecordOutcome = "FOUND"
	RecordCreated RecordOutcome = "CREATED"
)
