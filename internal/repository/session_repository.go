package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/roster-api/internal/models"
)

// ErrAlreadyCancelled is returned when a cancel targets an attendance row
// that has already been cancelled. The service layer maps it to a conflict.
var ErrAlreadyCancelled = errors.New("attendance already cancelled")

const (
	mentorSessionColumns  = "id, chapter_id, mentor_id, attended_on, status, created_at, updated_at"
	studentSessionColumns = "id, chapter_id, student_id, attended_on, created_at"
	attendanceColumns     = "id, chapter_id, attended_on, mentor_session_id, student_session_id, has_report, completed_on, signed_off_on, is_cancelled, report, report_feedback, created_at"
)

// SessionRepository owns the per-date session headers and the attendance
// rows linking them. All multi-row mutations run inside one transaction so
// the header/attendance triple is never observably out of sync.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository instantiates a session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindMentorSessionByID loads a mentor header by identifier.
func (r *SessionRepository) FindMentorSessionByID(ctx context.Context, id string) (*models.MentorSession, error) {
	query := fmt.Sprintf("SELECT %s FROM mentor_sessions WHERE id = $1", mentorSessionColumns)
	var session models.MentorSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertMentorSession creates the (chapter, mentor, date) header or updates
// its status in place. The unique constraint makes concurrent bookings for
// the same slot converge on one row.
func (r *SessionRepository) UpsertMentorSession(ctx context.Context, session *models.MentorSession) (*models.MentorSession, models.RecordOutcome, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO mentor_sessions (id, chapter_id, mentor_id, attended_on, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (chapter_id, mentor_id, attended_on)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING %s, (xmax = 0) AS inserted`, mentorSessionColumns)

	var row struct {
		models.MentorSession
		Inserted bool `db:"inserted"`
	}
	if err := r.db.GetContext(ctx, &row, query,
		session.ID, session.ChapterID, session.MentorID, session.AttendedOn, session.Status, session.CreatedAt, session.UpdatedAt,
	); err != nil {
		return nil, "", fmt.Errorf("upsert mentor session: %w", err)
	}

	outcome := models.RecordFound
	if row.Inserted {
		outcome = models.RecordCreated
	}
	stored := row.MentorSession
	return &stored, outcome, nil
}

// FindOrCreateStudentSession returns the (chapter, student, date) header,
// creating it when absent. Insert-then-select over the unique constraint
// keeps concurrent group bookings race-safe.
func (r *SessionRepository) FindOrCreateStudentSession(ctx context.Context, session *models.StudentSession) (*models.StudentSession, models.RecordOutcome, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.CreatedAt = time.Now().UTC()

	insert := fmt.Sprintf(`INSERT INTO student_sessions (id, chapter_id, student_id, attended_on, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chapter_id, student_id, attended_on) DO NOTHING
		RETURNING %s`, studentSessionColumns)

	var stored models.StudentSession
	err := r.db.GetContext(ctx, &stored, insert,
		session.ID, session.ChapterID, session.StudentID, session.AttendedOn, session.CreatedAt,
	)
	if err == nil {
		return &stored, models.RecordCreated, nil
	}
	if err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("create student session: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM student_sessions WHERE chapter_id = $1 AND student_id = $2 AND attended_on = $3", studentSessionColumns)
	if err := r.db.GetContext(ctx, &stored, query, session.ChapterID, session.StudentID, session.AttendedOn); err != nil {
		return nil, "", fmt.Errorf("find student session: %w", err)
	}
	return &stored, models.RecordFound, nil
}

// CreateAttendance links a mentor header and a student header.
func (r *SessionRepository) CreateAttendance(ctx context.Context, attendance *models.SessionAttendance) error {
	if attendance.ID == "" {
		attendance.ID = uuid.NewString()
	}
	attendance.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO session_attendance (id, chapter_id, attended_on, mentor_session_id, student_session_id, has_report, is_cancelled, created_at)
		VALUES (:id, :chapter_id, :attended_on, :mentor_session_id, :student_session_id, :has_report, :is_cancelled, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, attendance); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// FindAttendanceByID loads an attendance row by identifier.
func (r *SessionRepository) FindAttendanceByID(ctx context.Context, id string) (*models.SessionAttendance, error) {
	query := fmt.Sprintf("SELECT %s FROM session_attendance WHERE id = $1", attendanceColumns)
	var attendance models.SessionAttendance
	if err := r.db.GetContext(ctx, &attendance, query, id); err != nil {
		return nil, err
	}
	return &attendance, nil
}

// CountActiveByStudentOnDate counts non-cancelled attendance rows for a
// student on a date, across all mentors.
func (r *SessionRepository) CountActiveByStudentOnDate(ctx context.Context, chapterID, studentID string, attendedOn time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM session_attendance a
		JOIN student_sessions ss ON ss.id = a.student_session_id
		WHERE a.chapter_id = $1 AND ss.student_id = $2 AND a.attended_on = $3 AND a.is_cancelled = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, chapterID, studentID, attendedOn); err != nil {
		return 0, fmt.Errorf("count student bookings: %w", err)
	}
	return count, nil
}

// CountActiveByMentorSession counts non-cancelled attendance rows attached
// to a mentor header.
func (r *SessionRepository) CountActiveByMentorSession(ctx context.Context, mentorSessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM session_attendance WHERE mentor_session_id = $1 AND is_cancelled = FALSE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, mentorSessionID); err != nil {
		return 0, fmt.Errorf("count mentor session bookings: %w", err)
	}
	return count, nil
}

// CancelCascade deletes an attendance row and garbage-collects both headers
// when their last attendance row is gone, all in one transaction. A mentor
// header whose status is UNAVAILABLE survives the cascade: that is an
// explicit declaration, not a booking artifact.
func (r *SessionRepository) CancelCascade(ctx context.Context, attendanceID string) (*models.CancelledAttendance, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var row struct {
		ID               string                     `db:"id"`
		ChapterID        string                     `db:"chapter_id"`
		AttendedOn       time.Time                  `db:"attended_on"`
		MentorSessionID  string                     `db:"mentor_session_id"`
		StudentSessionID string                     `db:"student_session_id"`
		IsCancelled      bool                       `db:"is_cancelled"`
		MentorID         string                     `db:"mentor_id"`
		MentorStatus     models.MentorSessionStatus `db:"mentor_status"`
	}
	const lockQuery = `SELECT a.id, a.chapter_id, a.attended_on, a.mentor_session_id, a.student_session_id, a.is_cancelled,
		ms.mentor_id, ms.status AS mentor_status
		FROM session_attendance a
		JOIN mentor_sessions ms ON ms.id = a.mentor_session_id
		WHERE a.id = $1
		FOR UPDATE OF a, ms`
	if err = tx.GetContext(ctx, &row, lockQuery, attendanceID); err != nil {
		return nil, err
	}

	if row.IsCancelled {
		err = ErrAlreadyCancelled
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM session_attendance WHERE id = $1`, attendanceID); err != nil {
		err = fmt.Errorf("delete attendance: %w", err)
		return nil, err
	}

	// Recounts observe the post-delete state inside the same transaction.
	var mentorRemaining int
	if err = tx.GetContext(ctx, &mentorRemaining, `SELECT COUNT(*) FROM session_attendance WHERE mentor_session_id = $1`, row.MentorSessionID); err != nil {
		err = fmt.Errorf("recount mentor session: %w", err)
		return nil, err
	}
	if mentorRemaining == 0 && row.MentorStatus != models.MentorSessionUnavailable {
		if _, err = tx.ExecContext(ctx, `DELETE FROM mentor_sessions WHERE id = $1`, row.MentorSessionID); err != nil {
			err = fmt.Errorf("delete mentor session: %w", err)
			return nil, err
		}
	}

	var studentRemaining int
	if err = tx.GetContext(ctx, &studentRemaining, `SELECT COUNT(*) FROM session_attendance WHERE student_session_id = $1`, row.StudentSessionID); err != nil {
		err = fmt.Errorf("recount student session: %w", err)
		return nil, err
	}
	if studentRemaining == 0 {
		if _, err = tx.ExecContext(ctx, `DELETE FROM student_sessions WHERE id = $1`, row.StudentSessionID); err != nil {
			err = fmt.Errorf("delete student session: %w", err)
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cancel tx: %w", err)
	}

	return &models.CancelledAttendance{
		ChapterID:  row.ChapterID,
		MentorID:   row.MentorID,
		AttendedOn: row.AttendedOn,
	}, nil
}

// UpdateMentorSessionStatus sets the status of a mentor header.
func (r *SessionRepository) UpdateMentorSessionStatus(ctx context.Context, id string, status models.MentorSessionStatus) (*models.MentorSession, error) {
	query := fmt.Sprintf(`UPDATE mentor_sessions SET status = $2, updated_at = $3 WHERE id = $1 RETURNING %s`, mentorSessionColumns)
	var session models.MentorSession
	if err := r.db.GetContext(ctx, &session, query, id, status, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteMentorSessionIfEmpty removes a mentor header that has no attendance
// rows, used when a mentor withdraws an explicit unavailability.
func (r *SessionRepository) DeleteMentorSessionIfEmpty(ctx context.Context, id string) error {
	const query = `DELETE FROM mentor_sessions ms WHERE ms.id = $1
		AND NOT EXISTS (SELECT 1 FROM session_attendance a WHERE a.mentor_session_id = ms.id)`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete empty mentor session: %w", err)
	}
	return nil
}

// ListAttendanceDetails returns non-cancelled attendance rows for a chapter
// within a date window, joined with both headers, in deterministic scan
// order for the grid builder.
func (r *SessionRepository) ListAttendanceDetails(ctx context.Context, chapterID string, from, to time.Time) ([]models.AttendanceDetail, error) {
	const query = `SELECT a.id, a.chapter_id, a.attended_on, a.mentor_session_id, a.student_session_id,
		ms.mentor_id, ss.student_id, a.is_cancelled, a.has_report
		FROM session_attendance a
		JOIN mentor_sessions ms ON ms.id = a.mentor_session_id
		JOIN student_sessions ss ON ss.id = a.student_session_id
		WHERE a.chapter_id = $1 AND a.attended_on BETWEEN $2 AND $3 AND a.is_cancelled = FALSE
		ORDER BY a.attended_on ASC, a.id ASC`
	var details []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &details, query, chapterID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance details: %w", err)
	}
	return details, nil
}

// ListUnavailableMentorSessions returns explicit UNAVAILABLE declarations
// for a chapter within a date window.
func (r *SessionRepository) ListUnavailableMentorSessions(ctx context.Context, chapterID string, from, to time.Time) ([]models.MentorSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM mentor_sessions
		WHERE chapter_id = $1 AND attended_on BETWEEN $2 AND $3 AND status = $4
		ORDER BY attended_on ASC, mentor_id ASC`, mentorSessionColumns)
	var sessions []models.MentorSession
	if err := r.db.SelectContext(ctx, &sessions, query, chapterID, from, to, models.MentorSessionUnavailable); err != nil {
		return nil, fmt.Errorf("list unavailable mentor sessions: %w", err)
	}
	return sessions, nil
}

// SubmitReport stores the session report text on an attendance row.
func (r *SessionRepository) SubmitReport(ctx context.Context, id, report string) (*models.SessionAttendance, error) {
	query := fmt.Sprintf(`UPDATE session_attendance SET report = $2, has_report = TRUE, completed_on = $3
		WHERE id = $1 RETURNING %s`, attendanceColumns)
	var attendance models.SessionAttendance
	if err := r.db.GetContext(ctx, &attendance, query, id, report, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &attendance, nil
}

// SignOff records review of a submitted report.
func (r *SessionRepository) SignOff(ctx context.Context, id string, feedback *string) (*models.SessionAttendance, error) {
	query := fmt.Sprintf(`UPDATE session_attendance SET signed_off_on = $2, report_feedback = $3
		WHERE id = $1 RETURNING %s`, attendanceColumns)
	var attendance models.SessionAttendance
	if err := r.db.GetContext(ctx, &attendance, query, id, time.Now().UTC(), feedback); err != nil {
		return nil, err
	}
	return &attendance, nil
}
