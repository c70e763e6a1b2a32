package models

// GridKey addresses one checkbox of the roster planning grid. Date is a
// YYYY-MM-DD string so the composite key is comparable.
type GridKey struct {
	StudentID string `json:"student_id"`
	MentorID  string `json:"mentor_id"`
	Date      string `json:"date"`
}

// GridCell is the booking state of one checkbox.
type GridCell struct {
	Checked  bool `json:"checked"`
	Disabled bool `json:"disabled"`
}

// AvailabilityGrid maps every selectable (student, mentor, date) triple to
// its booking state. It is a projection rebuilt from the ledger rows on each
// query, never persisted.
type AvailabilityGrid map[GridKey]GridCell

// Cell returns the state for a key; absent keys read as unchecked/enabled.
func (g AvailabilityGrid) Cell(key GridKey) GridCell {
	return g[key]
}

// PersonDayCount counts same-date partners for one person, used to label
// combined sessions ("2 students", "3 mentors").
type PersonDayCount struct {
	PersonID string `json:"person_id"`
	Date     string `json:"date"`
	Count    int    `json:"count"`
}

// RosterRow is one plannable pairing in the roster view.
type RosterRow struct {
	StudentID   string              `json:"student_id"`
	StudentName string              `json:"student_name"`
	MentorID    string              `json:"mentor_id"`
	MentorName  string              `json:"mentor_name"`
	Assigned    bool                `json:"assigned"`
	Cells       map[string]GridCell `json:"cells"`
}

// RosterView is the full planning payload for a chapter and term.
type RosterView struct {
	ChapterID      string           `json:"chapter_id"`
	Term           Term             `json:"term"`
	Dates          []string         `json:"dates"`
	Rows           []RosterRow      `json:"rows"`
	MentorCounts   []PersonDayCount `json:"mentor_counts,omitempty"`
	StudentCounts  []PersonDayCount `json:"student_counts,omitempty"`
	Unavailability []MentorSession  `json:"unavailability,omitempty"`
}
