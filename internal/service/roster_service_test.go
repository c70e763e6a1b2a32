package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/roster-api/internal/models"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
)

type mockChapterRepository struct {
	chapters map[string]*models.Chapter
	mentors  []models.Mentor
	students []models.Student
}

func (m *mockChapterRepository) FindByID(ctx context.Context, id string) (*models.Chapter, error) {
	chapter, ok := m.chapters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return chapter, nil
}

func (m *mockChapterRepository) ListMentors(ctx context.Context, chapterID string) ([]models.Mentor, error) {
	return m.mentors, nil
}

func (m *mockChapterRepository) ListStudents(ctx context.Context, chapterID string) ([]models.Student, error) {
	return m.students, nil
}

type mockAssignmentRepository struct {
	assignments []models.AssignmentDetail
}

func (m *mockAssignmentRepository) ListByChapter(ctx context.Context, chapterID string) ([]models.AssignmentDetail, error) {
	return m.assignments, nil
}

type mockRosterSessionReader struct {
	rows           []models.AttendanceDetail
	unavailability []models.MentorSession
}

func (m *mockRosterSessionReader) ListAttendanceDetails(ctx context.Context, chapterID string, from, to time.Time) ([]models.AttendanceDetail, error) {
	return m.rows, nil
}

func (m *mockRosterSessionReader) ListUnavailableMentorSessions(ctx context.Context, chapterID string, from, to time.Time) ([]models.MentorSession, error) {
	return m.unavailability, nil
}

func assignment(studentID, mentorID string) models.AssignmentDetail {
	return models.AssignmentDetail{
		Assignment: models.Assignment{ChapterID: "ch-1", StudentID: studentID, MentorID: mentorID},
	}
}

func attendanceRow(id, mentorID, studentID, date string) models.AttendanceDetail {
	return models.AttendanceDetail{
		ID:         id,
		ChapterID:  "ch-1",
		AttendedOn: day(date),
		MentorID:   mentorID,
		StudentID:  studentID,
	}
}

func TestPlannerPairs(t *testing.T) {
	assignments := []models.AssignmentDetail{
		assignment("s-1", "m-1"),
		assignment("s-2", "m-1"),
		assignment("s-1", "m-1"), // duplicate assignment
	}
	rows := []models.AttendanceDetail{
		attendanceRow("a1", "m-1", "s-1", "2023-02-06"), // already a pair
		attendanceRow("a2", "m-2", "s-3", "2023-02-06"), // ad-hoc pairing
	}

	pairs := PlannerPairs(assignments, rows)
	require.Len(t, pairs, 3)

	assert.Equal(t, PlannerPair{StudentID: "s-1", MentorID: "m-1", Assigned: true}, pairs[0])
	assert.Equal(t, PlannerPair{StudentID: "s-2", MentorID: "m-1", Assigned: true}, pairs[1])
	assert.Equal(t, PlannerPair{StudentID: "s-3", MentorID: "m-2", Assigned: false}, pairs[2])
}

func TestBuildAvailabilityGridEmptyLedger(t *testing.T) {
	dates := []string{"2023-02-06", "2023-02-13"}
	pairs := []PlannerPair{
		{StudentID: "s-1", MentorID: "m-1"},
		{StudentID: "s-2", MentorID: "m-1"},
	}

	grid := BuildAvailabilityGrid(dates, pairs, nil)
	require.Len(t, grid, 4)
	for key, cell := range grid {
		assert.False(t, cell.Checked, "cell %v", key)
		assert.False(t, cell.Disabled, "cell %v", key)
	}
}

func TestBuildAvailabilityGridMutualExclusion(t *testing.T) {
	dates := []string{"2023-02-06"}
	pairs := []PlannerPair{
		{StudentID: "s-1", MentorID: "m-1"},
		{StudentID: "s-1", MentorID: "m-2"},
		{StudentID: "s-2", MentorID: "m-1"},
		{StudentID: "s-2", MentorID: "m-2"},
	}
	rows := []models.AttendanceDetail{attendanceRow("a1", "m-1", "s-1", "2023-02-06")}

	grid := BuildAvailabilityGrid(dates, pairs, rows)

	own := grid.Cell(models.GridKey{StudentID: "s-1", MentorID: "m-1", Date: "2023-02-06"})
	assert.True(t, own.Checked)
	assert.False(t, own.Disabled)

	// Same student with another mentor is blocked.
	sameStudent := grid.Cell(models.GridKey{StudentID: "s-1", MentorID: "m-2", Date: "2023-02-06"})
	assert.False(t, sameStudent.Checked)
	assert.True(t, sameStudent.Disabled)

	// Same mentor with another student is blocked.
	sameMentor := grid.Cell(models.GridKey{StudentID: "s-2", MentorID: "m-1", Date: "2023-02-06"})
	assert.False(t, sameMentor.Checked)
	assert.True(t, sameMentor.Disabled)

	// An unrelated pairing stays open.
	unrelated := grid.Cell(models.GridKey{StudentID: "s-2", MentorID: "m-2", Date: "2023-02-06"})
	assert.False(t, unrelated.Checked)
	assert.False(t, unrelated.Disabled)
}

func TestBuildAvailabilityGridGroupSession(t *testing.T) {
	dates := []string{"2023-02-06"}
	pairs := []PlannerPair{
		{StudentID: "s-1", MentorID: "m-1"},
		{StudentID: "s-2", MentorID: "m-1"},
	}
	rows := []models.AttendanceDetail{
		attendanceRow("a1", "m-1", "s-1", "2023-02-06"),
		attendanceRow("a2", "m-1", "s-2", "2023-02-06"),
	}

	grid := BuildAvailabilityGrid(dates, pairs, rows)

	// Both booked cells stay checked and enabled; the later row's disabling
	// pass does not undo the earlier booking's own cell.
	for _, studentID := range []string{"s-1", "s-2"} {
		cell := grid.Cell(models.GridKey{StudentID: studentID, MentorID: "m-1", Date: "2023-02-06"})
		assert.True(t, cell.Checked, "student %s", studentID)
		assert.False(t, cell.Disabled, "student %s", studentID)
	}
}

func TestBuildAvailabilityGridIgnoresCancelledRows(t *testing.T) {
	dates := []string{"2023-02-06"}
	pairs := []PlannerPair{
		{StudentID: "s-1", MentorID: "m-1"},
		{StudentID: "s-2", MentorID: "m-1"},
	}
	cancelled := attendanceRow("a1", "m-1", "s-1", "2023-02-06")
	cancelled.IsCancelled = true

	grid := BuildAvailabilityGrid(dates, pairs, []models.AttendanceDetail{cancelled})

	for key, cell := range grid {
		assert.False(t, cell.Checked, "cell %v", key)
		assert.False(t, cell.Disabled, "cell %v", key)
	}
}

func TestBuildAvailabilityGridOtherDatesUnaffected(t *testing.T) {
	dates := []string{"2023-02-06", "2023-02-13"}
	pairs := []PlannerPair{
		{StudentID: "s-1", MentorID: "m-1"},
		{StudentID: "s-1", MentorID: "m-2"},
	}
	rows := []models.AttendanceDetail{attendanceRow("a1", "m-1", "s-1", "2023-02-06")}

	grid := BuildAvailabilityGrid(dates, pairs, rows)

	nextWeek := grid.Cell(models.GridKey{StudentID: "s-1", MentorID: "m-2", Date: "2023-02-13"})
	assert.False(t, nextWeek.Checked)
	assert.False(t, nextWeek.Disabled)
}

func TestCombinedSessionCounts(t *testing.T) {
	rows := []models.AttendanceDetail{
		attendanceRow("a1", "m-1", "s-1", "2023-02-06"),
		attendanceRow("a2", "m-1", "s-2", "2023-02-06"),
		attendanceRow("a3", "m-2", "s-3", "2023-02-06"),
		attendanceRow("a4", "m-1", "s-1", "2023-02-13"),
	}

	mentorCounts, studentCounts := combinedSessionCounts(rows)

	require.Len(t, mentorCounts, 1)
	assert.Equal(t, models.PersonDayCount{PersonID: "m-1", Date: "2023-02-06", Count: 2}, mentorCounts[0])
	assert.Empty(t, studentCounts)
}

func TestRosterServiceRoster(t *testing.T) {
	term := models.Term{
		ID:        "t1",
		Year:      2023,
		Label:     "Spring",
		StartDate: day("2023-02-01"),
		EndDate:   day("2023-02-28"),
	}
	chapters := &mockChapterRepository{
		chapters: map[string]*models.Chapter{"ch-1": {ID: "ch-1", Name: "North"}},
		mentors:  []models.Mentor{{ID: "m-1", FullName: "Maria Keller"}},
		students: []models.Student{{ID: "s-1", FullName: "Jonas Brandt"}, {ID: "s-2", FullName: "Lea Voss"}},
	}
	assignments := &mockAssignmentRepository{
		assignments: []models.AssignmentDetail{
			assignment("s-1", "m-1"),
			assignment("s-2", "m-1"),
		},
	}
	sessions := &mockRosterSessionReader{
		rows: []models.AttendanceDetail{attendanceRow("a1", "m-1", "s-1", "2023-02-06")},
		unavailability: []models.MentorSession{
			{ID: "ms-9", ChapterID: "ch-1", MentorID: "m-1", AttendedOn: day("2023-02-20"), Status: models.MentorSessionUnavailable},
		},
	}
	calendar := NewCalendarService(time.Monday, nil)
	svc := NewRosterService(chapters, assignments, sessions, calendar, nil, nil, 0, nil)

	view, err := svc.Roster(context.Background(), "ch-1", term)
	require.NoError(t, err)

	assert.Equal(t, "ch-1", view.ChapterID)
	assert.Equal(t, []string{"2023-02-06", "2023-02-13", "2023-02-20", "2023-02-27"}, view.Dates)
	require.Len(t, view.Rows, 2)

	first := view.Rows[0]
	assert.Equal(t, "Jonas Brandt", first.StudentName)
	assert.Equal(t, "Maria Keller", first.MentorName)
	assert.True(t, first.Assigned)
	assert.True(t, first.Cells["2023-02-06"].Checked)
	assert.False(t, first.Cells["2023-02-13"].Checked)

	second := view.Rows[1]
	assert.Equal(t, "Lea Voss", second.StudentName)
	assert.True(t, second.Cells["2023-02-06"].Disabled)
	assert.False(t, second.Cells["2023-02-13"].Disabled)

	require.Len(t, view.Unavailability, 1)
	assert.Equal(t, "ms-9", view.Unavailability[0].ID)
}

func TestRosterServiceChapterNotFound(t *testing.T) {
	chapters := &mockChapterRepository{chapters: map[string]*models.Chapter{}}
	calendar := NewCalendarService(time.Monday, nil)
	svc := NewRosterService(chapters, &mockAssignmentRepository{}, &mockRosterSessionReader{}, calendar, nil, nil, 0, nil)

	_, err := svc.Roster(context.Background(), "missing", models.Term{ID: "t1"})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
