package models

import "time"

// Chapter is a local program branch owning its own mentors and students.
type Chapter struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Region    string    `db:"region" json:"region"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Mentor is a volunteer mentor registered with a chapter.
type Mentor struct {
	ID        string    `db:"id" json:"id"`
	ChapterID string    `db:"chapter_id" json:"chapter_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Student is a mentee enrolled with a chapter.
type Student struct {
	ID         string    `db:"id" json:"id"`
	ChapterID  string    `db:"chapter_id" json:"chapter_id"`
	FullName   string    `db:"full_name" json:"full_name"`
	SchoolYear int       `db:"school_year" json:"school_year"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
