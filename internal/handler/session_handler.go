package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/roster-api/internal/models"
	"github.com/mentorhub/roster-api/internal/service"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
	"github.com/mentorhub/roster-api/pkg/response"
)

type ledgerService interface {
	BookMentorAvailability(ctx context.Context, req service.BookMentorAvailabilityRequest) (*service.BookingResult, error)
	BookStudentIntoSession(ctx context.Context, req service.BookStudentRequest) (*models.SessionAttendance, error)
	CancelAttendance(ctx context.Context, attendanceID string) (*models.CancelledAttendance, error)
	RestoreMentorAvailability(ctx context.Context, mentorSessionID string) (*models.MentorSession, error)
	RemoveMentorAvailability(ctx context.Context, mentorSessionID string) error
	ListUnavailability(ctx context.Context, chapterID string, from, to time.Time) ([]models.MentorSession, error)
	SubmitReport(ctx context.Context, attendanceID string, req service.SubmitReportRequest) (*models.SessionAttendance, error)
	SignOff(ctx context.Context, attendanceID string, req service.SignOffRequest) (*models.SessionAttendance, error)
}

type termResolver interface {
	Resolve(ctx context.Context, selector models.TermSelector) (*models.Term, error)
}

// SessionHandler exposes the session ledger mutations.
type SessionHandler struct {
	ledger ledgerService
	terms  termResolver
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(ledger ledgerService, terms termResolver) *SessionHandler {
	return &SessionHandler{ledger: ledger, terms: terms}
}

// BookMentorAvailability godoc
// @Summary Book or toggle a mentor's availability for a date
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Chapter ID"
// @Param payload body service.BookMentorAvailabilityRequest true "Availability payload"
// @Success 201 {object} response.Envelope
// @Router /chapters/{id}/mentor-sessions [post]
func (h *SessionHandler) BookMentorAvailability(c *gin.Context) {
	var req service.BookMentorAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ChapterID = c.Param("id")

	result, err := h.ledger.BookMentorAvailability(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Outcome == models.RecordCreated {
		response.Created(c, result)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// BookStudent godoc
// @Summary Book a student into a mentor's session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Mentor session ID"
// @Param payload body service.BookStudentRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /mentor-sessions/{id}/students [post]
func (h *SessionHandler) BookStudent(c *gin.Context) {
	var req service.BookStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.MentorSessionID = c.Param("id")

	attendance, err := h.ledger.BookStudentIntoSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attendance)
}

// Cancel godoc
// @Summary Cancel an attendance row
// @Description Deletes the attendance and garbage-collects headers left without bookings
// @Tags Sessions
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendances/{id} [delete]
func (h *SessionHandler) Cancel(c *gin.Context) {
	cancelled, err := h.ledger.CancelAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cancelled, nil)
}

// Restore godoc
// @Summary Restore a mentor's availability
// @Tags Sessions
// @Produce json
// @Param id path string true "Mentor session ID"
// @Success 200 {object} response.Envelope
// @Router /mentor-sessions/{id}/restore [post]
func (h *SessionHandler) Restore(c *gin.Context) {
	session, err := h.ledger.RestoreMentorAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Remove godoc
// @Summary Withdraw a mentor session without bookings
// @Tags Sessions
// @Param id path string true "Mentor session ID"
// @Success 204
// @Router /mentor-sessions/{id} [delete]
func (h *SessionHandler) Remove(c *gin.Context) {
	if err := h.ledger.RemoveMentorAvailability(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unavailability godoc
// @Summary List a chapter's mentor unavailability for a term
// @Tags Sessions
// @Produce json
// @Param id path string true "Chapter ID"
// @Param year query int false "Target year"
// @Param termId query string false "Term ID"
// @Param date query string false "Target date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/unavailability [get]
func (h *SessionHandler) Unavailability(c *gin.Context) {
	term, err := h.terms.Resolve(c.Request.Context(), termSelectorFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	sessions, err := h.ledger.ListUnavailability(c.Request.Context(), c.Param("id"), term.StartDate, term.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// SubmitReport godoc
// @Summary Submit the session report for an attendance row
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Attendance ID"
// @Param payload body service.SubmitReportRequest true "Report payload"
// @Success 200 {object} response.Envelope
// @Router /attendances/{id}/report [put]
func (h *SessionHandler) SubmitReport(c *gin.Context) {
	var req service.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	attendance, err := h.ledger.SubmitReport(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, attendance, nil)
}

// SignOff godoc
// @Summary Sign off a submitted report
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Attendance ID"
// @Param payload body service.SignOffRequest false "Feedback payload"
// @Success 200 {object} response.Envelope
// @Router /attendances/{id}/sign-off [post]
func (h *SessionHandler) SignOff(c *gin.Context) {
	var req service.SignOffRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	attendance, err := h.ledger.SignOff(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, attendance, nil)
}
