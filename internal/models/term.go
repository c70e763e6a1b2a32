package models

import "time"

// Term models one school term in the program calendar. Terms of a year are
// sorted ascending by start date and never overlap; gaps between terms are
// allowed.
type Term struct {
	ID        string    `db:"id" json:"id"`
	Year      int       `db:"year" json:"year"`
	Label     string    `db:"label" json:"label"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Contains reports whether the calendar day falls within the term.
func (t Term) Contains(day time.Time) bool {
	return !day.Before(t.StartDate) && !day.After(t.EndDate)
}

// TermFilter defines filters supported by the term list endpoint.
type TermFilter struct {
	Year      int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// TermSelector identifies the term a caller wants resolved: either an
// explicit (year, term id) pair or a bare date. Date is YYYY-MM-DD.
type TermSelector struct {
	Year   int
	TermID string
	Date   string
}
