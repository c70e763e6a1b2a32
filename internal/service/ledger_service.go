package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorhub/roster-api/internal/models"
	"github.com/mentorhub/roster-api/internal/repository"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
)

type sessionRepository interface {
	FindMentorSessionByID(ctx context.Context, id string) (*models.MentorSession, error)
	UpsertMentorSession(ctx context.Context, session *models.MentorSession) (*models.MentorSession, models.RecordOutcome, error)
	FindOrCreateStudentSession(ctx context.Context, session *models.StudentSession) (*models.StudentSession, models.RecordOutcome, error)
	CreateAttendance(ctx context.Context, attendance *models.SessionAttendance) error
	FindAttendanceByID(ctx context.Context, id string) (*models.SessionAttendance, error)
	CountActiveByStudentOnDate(ctx context.Context, chapterID, studentID string, attendedOn time.Time) (int, error)
	CountActiveByMentorSession(ctx context.Context, mentorSessionID string) (int, error)
	CancelCascade(ctx context.Context, attendanceID string) (*models.CancelledAttendance, error)
	UpdateMentorSessionStatus(ctx context.Context, id string, status models.MentorSessionStatus) (*models.MentorSession, error)
	DeleteMentorSessionIfEmpty(ctx context.Context, id string) error
	ListUnavailableMentorSessions(ctx context.Context, chapterID string, from, to time.Time) ([]models.MentorSession, error)
	SubmitReport(ctx context.Context, id, report string) (*models.SessionAttendance, error)
	SignOff(ctx context.Context, id string, feedback *string) (*models.SessionAttendance, error)
}

// BookMentorAvailabilityRequest declares a mentor's state for one date.
type BookMentorAvailabilityRequest struct {
	ChapterID string `json:"chapter_id" validate:"required"`
	MentorID  string `json:"mentor_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,session_status"`
}

// BookStudentRequest attaches a student to a mentor's session. Group must be
// set to add a second student to the same mentor on one date.
type BookStudentRequest struct {
	MentorSessionID string `json:"mentor_session_id" validate:"required"`
	StudentID       string `json:"student_id" validate:"required"`
	Group           bool   `json:"group"`
}

// SubmitReportRequest stores the mentor's session report.
type SubmitReportRequest struct {
	Report string `json:"report" validate:"required"`
}

// SignOffRequest records review of a submitted report.
type SignOffRequest struct {
	Feedback *string `json:"feedback"`
}

// BookingResult pairs a stored row with whether it already existed.
type BookingResult struct {
	MentorSession *models.MentorSession `json:"mentor_session"`
	Outcome       models.RecordOutcome  `json:"outcome"`
}

// LedgerService is the consistency engine for the session ledger. It owns
// every mutation of mentor headers, student headers and attendance rows; no
// other component writes them.
type LedgerService struct {
	repo      sessionRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLedgerService constructs the ledger service.
func NewLedgerService(repo sessionRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LedgerService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
	svc.validator.RegisterValidation("session_status", func(fl validator.FieldLevel) bool {
		return models.MentorSessionStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	return svc
}

// BookMentorAvailability creates the mentor's header for the date or toggles
// its status in place. No attendance rows are touched.
func (s *LedgerService) BookMentorAvailability(ctx context.Context, req BookMentorAvailabilityRequest) (*BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := models.ParseDay(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	session := &models.MentorSession{
		ChapterID:  req.ChapterID,
		MentorID:   req.MentorID,
		AttendedOn: date,
		Status:     models.MentorSessionStatus(strings.ToUpper(req.Status)),
	}
	stored, outcome, err := s.repo.UpsertMentorSession(ctx, session)
	if err != nil {
		s.metrics.RecordBooking("book_mentor", "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book mentor availability")
	}

	s.metrics.RecordBooking("book_mentor", strings.ToLower(string(outcome)))
	s.invalidateRoster(ctx, req.ChapterID)
	return &BookingResult{MentorSession: stored, Outcome: outcome}, nil
}

// BookStudentIntoSession attaches a student to an existing mentor header,
// creating the student header lazily. Chapter and date are copied from the
// mentor header, never re-derived. Double bookings are rejected at write
// time: a student already committed that date conflicts, and a mentor with
// an existing booking only takes another student when the request is an
// explicit group session.
func (s *LedgerService) BookStudentIntoSession(ctx context.Context, req BookStudentRequest) (*models.SessionAttendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	mentorSession, err := s.repo.FindMentorSessionByID(ctx, req.MentorSessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor session")
	}

	busy, err := s.repo.CountActiveByStudentOnDate(ctx, mentorSession.ChapterID, req.StudentID, mentorSession.AttendedOn)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student bookings")
	}
	if busy > 0 {
		s.metrics.RecordBooking("book_student", "conflict")
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already booked on this date")
	}

	mentorBusy, err := s.repo.CountActiveByMentorSession(ctx, mentorSession.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mentor bookings")
	}
	if mentorBusy > 0 && !req.Group {
		s.metrics.RecordBooking("book_student", "conflict")
		return nil, appErrors.Clone(appErrors.ErrConflict, "mentor already booked on this date; set group to add another student")
	}

	studentSession, outcome, err := s.repo.FindOrCreateStudentSession(ctx, &models.StudentSession{
		ChapterID:  mentorSession.ChapterID,
		StudentID:  req.StudentID,
		AttendedOn: mentorSession.AttendedOn,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student session")
	}
	s.logger.Debug("student session resolved",
		zap.String("student_id", req.StudentID),
		zap.String("outcome", string(outcome)),
	)

	attendance := &models.SessionAttendance{
		ChapterID:        mentorSession.ChapterID,
		AttendedOn:       mentorSession.AttendedOn,
		MentorSessionID:  mentorSession.ID,
		StudentSessionID: studentSession.ID,
	}
	if err := s.repo.CreateAttendance(ctx, attendance); err != nil {
		s.metrics.RecordBooking("book_student", "error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
	}

	s.metrics.RecordBooking("book_student", "created")
	s.invalidateRoster(ctx, mentorSession.ChapterID)
	return attendance, nil
}

// CancelAttendance removes an attendance row and garbage-collects headers
// left without attendance, atomically. Returns the chapter/mentor/date
// triple so callers can refresh the originating view.
func (s *LedgerService) CancelAttendance(ctx context.Context, attendanceID string) (*models.CancelledAttendance, error) {
	if attendanceID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attendance id is required")
	}

	cancelled, err := s.repo.CancelCascade(ctx, attendanceID)
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance not found")
		case errors.Is(err, repository.ErrAlreadyCancelled):
			s.metrics.RecordBooking("cancel", "conflict")
			return nil, appErrors.Clone(appErrors.ErrConflict, "attendance already cancelled")
		default:
			s.metrics.RecordBooking("cancel", "error")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel attendance")
		}
	}

	s.metrics.RecordBooking("cancel", "ok")
	s.invalidateRoster(ctx, cancelled.ChapterID)
	return cancelled, nil
}

// RestoreMentorAvailability resets an UNAVAILABLE header back to AVAILABLE.
func (s *LedgerService) RestoreMentorAvailability(ctx context.Context, mentorSessionID string) (*models.MentorSession, error) {
	session, err := s.repo.FindMentorSessionByID(ctx, mentorSessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor session")
	}
	if session.Status == models.MentorSessionAvailable {
		return session, nil
	}

	restored, err := s.repo.UpdateMentorSessionStatus(ctx, session.ID, models.MentorSessionAvailable)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore mentor availability")
	}
	s.invalidateRoster(ctx, session.ChapterID)
	return restored, nil
}

// RemoveMentorAvailability withdraws a header the mentor declared, provided
// no attendance rows reference it.
func (s *LedgerService) RemoveMentorAvailability(ctx context.Context, mentorSessionID string) error {
	session, err := s.repo.FindMentorSessionByID(ctx, mentorSessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "mentor session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor session")
	}

	count, err := s.repo.CountActiveByMentorSession(ctx, session.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mentor bookings")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "mentor session has booked students")
	}

	if err := s.repo.DeleteMentorSessionIfEmpty(ctx, session.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove mentor session")
	}
	s.invalidateRoster(ctx, session.ChapterID)
	return nil
}

// ListUnavailability returns a chapter's explicit UNAVAILABLE declarations
// within a date window.
func (s *LedgerService) ListUnavailability(ctx context.Context, chapterID string, from, to time.Time) ([]models.MentorSession, error) {
	sessions, err := s.repo.ListUnavailableMentorSessions(ctx, chapterID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unavailability")
	}
	return sessions, nil
}

// SubmitReport stores the session report for an attendance row.
func (s *LedgerService) SubmitReport(ctx context.Context, attendanceID string, req SubmitReportRequest) (*models.SessionAttendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	attendance, err := s.repo.FindAttendanceByID(ctx, attendanceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if attendance.IsCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "attendance is cancelled")
	}

	updated, err := s.repo.SubmitReport(ctx, attendanceID, req.Report)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit report")
	}
	return updated, nil
}

// SignOff marks a submitted report as reviewed.
func (s *LedgerService) SignOff(ctx context.Context, attendanceID string, req SignOffRequest) (*models.SessionAttendance, error) {
	attendance, err := s.repo.FindAttendanceByID(ctx, attendanceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if !attendance.HasReport {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "attendance has no report to sign off")
	}
	if attendance.SignedOffOn != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report already signed off")
	}

	updated, err := s.repo.SignOff(ctx, attendanceID, req.Feedback)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign off report")
	}
	return updated, nil
}

func (s *LedgerService) invalidateRoster(ctx context.Context, chapterID string) {
	if !s.cache.Enabled() {
		return
	}
	pattern := fmt.Sprintf("roster:%s:*", chapterID)
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.String("chapter_id", chapterID), zap.Error(err))
	}
}
