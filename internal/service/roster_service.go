package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mentorhub/roster-api/internal/models"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
)

type chapterRepository interface {
	FindByID(ctx context.Context, id string) (*models.Chapter, error)
	ListMentors(ctx context.Context, chapterID string) ([]models.Mentor, error)
	ListStudents(ctx context.Context, chapterID string) ([]models.Student, error)
}

type assignmentRepository interface {
	ListByChapter(ctx context.Context, chapterID string) ([]models.AssignmentDetail, error)
}

type rosterSessionReader interface {
	ListAttendanceDetails(ctx context.Context, chapterID string, from, to time.Time) ([]models.AttendanceDetail, error)
	ListUnavailableMentorSessions(ctx context.Context, chapterID string, from, to time.Time) ([]models.MentorSession, error)
}

// PlannerPair is one selectable student/mentor pairing of the grid.
type PlannerPair struct {
	StudentID string
	MentorID  string
	Assigned  bool
}

// RosterService builds the availability grid for planning views. The grid is
// a projection rebuilt from the ledger's rows on each query; it never holds
// state of its own.
type RosterService struct {
	chapters    chapterRepository
	assignments assignmentRepository
	sessions    rosterSessionReader
	calendar    *CalendarService
	cache       *CacheService
	metrics     *MetricsService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(
	chapters chapterRepository,
	assignments assignmentRepository,
	sessions rosterSessionReader,
	calendar *CalendarService,
	cache *CacheService,
	metrics *MetricsService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		chapters:    chapters,
		assignments: assignments,
		sessions:    sessions,
		calendar:    calendar,
		cache:       cache,
		metrics:     metrics,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Roster assembles the planning view for a chapter and term: session dates,
// plannable rows and the per-cell booking state.
func (s *RosterService) Roster(ctx context.Context, chapterID string, term models.Term) (*models.RosterView, error) {
	if _, err := s.chapters.FindByID(ctx, chapterID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "chapter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chapter")
	}

	cacheKey := fmt.Sprintf("roster:%s:%s", chapterID, term.ID)
	if s.cache.Enabled() {
		var cached models.RosterView
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	view, err := s.build(ctx, chapterID, term)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, view, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache roster view", zap.String("chapter_id", chapterID), zap.Error(err))
		}
	}
	return view, nil
}

func (s *RosterService) build(ctx context.Context, chapterID string, term models.Term) (*models.RosterView, error) {
	dates := s.calendar.SessionDateStrings(term)

	assignments, err := s.assignments.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	queryStart := time.Now()
	rows, err := s.sessions.ListAttendanceDetails(ctx, chapterID, term.StartDate, term.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	s.metrics.ObserveDBQuery("roster_attendance", time.Since(queryStart))

	unavailability, err := s.sessions.ListUnavailableMentorSessions(ctx, chapterID, term.StartDate, term.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unavailability")
	}

	mentors, err := s.chapters.ListMentors(ctx, chapterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}
	students, err := s.chapters.ListStudents(ctx, chapterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	mentorNames := make(map[string]string, len(mentors))
	for _, m := range mentors {
		mentorNames[m.ID] = m.FullName
	}
	studentNames := make(map[string]string, len(students))
	for _, st := range students {
		studentNames[st.ID] = st.FullName
	}

	pairs := PlannerPairs(assignments, rows)
	grid := BuildAvailabilityGrid(dates, pairs, rows)

	viewRows := make([]models.RosterRow, 0, len(pairs))
	for _, pair := range pairs {
		cells := make(map[string]models.GridCell, len(dates))
		for _, date := range dates {
			cells[date] = grid.Cell(models.GridKey{StudentID: pair.StudentID, MentorID: pair.MentorID, Date: date})
		}
		viewRows = append(viewRows, models.RosterRow{
			StudentID:   pair.StudentID,
			StudentName: studentNames[pair.StudentID],
			MentorID:    pair.MentorID,
			MentorName:  mentorNames[pair.MentorID],
			Assigned:    pair.Assigned,
			Cells:       cells,
		})
	}

	mentorCounts, studentCounts := combinedSessionCounts(rows)

	return &models.RosterView{
		ChapterID:      chapterID,
		Term:           term,
		Dates:          dates,
		Rows:           viewRows,
		MentorCounts:   mentorCounts,
		StudentCounts:  studentCounts,
		Unavailability: unavailability,
	}, nil
}

// PlannerPairs merges standing assignments with ad-hoc pairings that only
// exist as booked attendance, deduplicated and deterministically ordered.
func PlannerPairs(assignments []models.AssignmentDetail, rows []models.AttendanceDetail) []PlannerPair {
	type pairKey struct{ studentID, mentorID string }
	seen := make(map[pairKey]bool)
	var pairs []PlannerPair

	for _, a := range assignments {
		key := pairKey{a.StudentID, a.MentorID}
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, PlannerPair{StudentID: a.StudentID, MentorID: a.MentorID, Assigned: true})
	}
	for _, row := range rows {
		key := pairKey{row.StudentID, row.MentorID}
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, PlannerPair{StudentID: row.StudentID, MentorID: row.MentorID})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].StudentID != pairs[j].StudentID {
			return pairs[i].StudentID < pairs[j].StudentID
		}
		return pairs[i].MentorID < pairs[j].MentorID
	})
	return pairs
}

// BuildAvailabilityGrid computes the booking state for every (student,
// mentor, date) cell. Every cell starts unchecked and enabled. Each booked
// attendance row, scanned once in (date, id) order, checks its own cell and
// disables every other same-date cell sharing its mentor or its student, so
// each person can hold at most one enabled booking per date. A later row's
// disabling pass wins for third-party cells; its own cell always ends
// checked and enabled.
func BuildAvailabilityGrid(dates []string, pairs []PlannerPair, rows []models.AttendanceDetail) models.AvailabilityGrid {
	grid := make(models.AvailabilityGrid, len(pairs)*len(dates))
	for _, pair := range pairs {
		for _, date := range dates {
			grid[models.GridKey{StudentID: pair.StudentID, MentorID: pair.MentorID, Date: date}] = models.GridCell{}
		}
	}

	for _, row := range rows {
		if row.IsCancelled {
			continue
		}
		date := models.FormatDay(row.AttendedOn)
		for _, pair := range pairs {
			key := models.GridKey{StudentID: pair.StudentID, MentorID: pair.MentorID, Date: date}
			switch {
			case pair.StudentID == row.StudentID && pair.MentorID == row.MentorID:
				grid[key] = models.GridCell{Checked: true, Disabled: false}
			case pair.MentorID == row.MentorID || pair.StudentID == row.StudentID:
				cell := grid[key]
				cell.Disabled = true
				grid[key] = cell
			}
		}
	}

	return grid
}

func combinedSessionCounts(rows []models.AttendanceDetail) (mentorCounts, studentCounts []models.PersonDayCount) {
	type dayKey struct {
		personID string
		date     string
	}
	mentorTotals := make(map[dayKey]int)
	studentTotals := make(map[dayKey]int)
	for _, row := range rows {
		date := models.FormatDay(row.AttendedOn)
		mentorTotals[dayKey{row.MentorID, date}]++
		studentTotals[dayKey{row.StudentID, date}]++
	}

	collect := func(totals map[dayKey]int) []models.PersonDayCount {
		var counts []models.PersonDayCount
		for key, count := range totals {
			// Single bookings are the steady state; only combined
			// sessions need a label.
			if count > 1 {
				counts = append(counts, models.PersonDayCount{PersonID: key.personID, Date: key.date, Count: count})
			}
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].Date != counts[j].Date {
				return counts[i].Date < counts[j].Date
			}
			return counts[i].PersonID < counts[j].PersonID
		})
		return counts
	}

	return collect(mentorTotals), collect(studentTotals)
}
