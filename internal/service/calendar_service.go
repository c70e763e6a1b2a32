package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/mentorhub/roster-api/internal/models"
)

// CalendarService derives the weekly session dates of a term. Generation is
// pure: the same term boundaries always yield the same sequence.
type CalendarService struct {
	weekday time.Weekday
	logger  *zap.Logger
}

// NewCalendarService constructs the calendar service anchored to the
// program's session weekday.
func NewCalendarService(weekday time.Weekday, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{weekday: weekday, logger: logger}
}

// Weekday returns the cadence anchor.
func (s *CalendarService) Weekday() time.Weekday {
	return s.weekday
}

// SessionDates returns the term's weekly session dates.
func (s *CalendarService) SessionDates(term models.Term) []time.Time {
	return SessionDates(term.StartDate, term.EndDate, s.weekday)
}

// SessionDateStrings returns the term's session dates as YYYY-MM-DD strings.
func (s *CalendarService) SessionDateStrings(term models.Term) []string {
	dates := s.SessionDates(term)
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = models.FormatDay(d)
	}
	return out
}

// SessionDates generates one date per week between start and end, anchored
// to the given weekday. The anchor of start's week is advanced in 7-day
// steps until it is not before start, then dates are collected while they
// do not pass end. A window too short to contain an anchored date degrades
// to the single date start, so every term produces at least one date and
// every date stays within [start, end].
func SessionDates(start, end time.Time, weekday time.Weekday) []time.Time {
	start = models.Day(start)
	end = models.Day(end)
	if end.Before(start) {
		end = start
	}

	d := weekAnchor(start, weekday)
	for d.Before(start) {
		d = d.AddDate(0, 0, 7)
	}

	var dates []time.Time
	for !d.After(end) {
		dates = append(dates, d)
		d = d.AddDate(0, 0, 7)
	}

	if len(dates) == 0 {
		dates = append(dates, start)
	}
	return dates
}

// weekAnchor returns the given weekday on or before the day.
func weekAnchor(day time.Time, weekday time.Weekday) time.Time {
	offset := int(day.Weekday()) - int(weekday)
	if offset < 0 {
		offset += 7
	}
	return day.AddDate(0, 0, -offset)
}
