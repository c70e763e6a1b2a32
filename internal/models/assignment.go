package models

import "time"

// Assignment is a standing mentor-student pairing independent of any date.
// Assignments are owned by administrative workflows and are read-only input
// to the roster planner, where they seed the selectable-partner rows.
type Assignment struct {
	ID         string    `db:"id" json:"id"`
	ChapterID  string    `db:"chapter_id" json:"chapter_id"`
	MentorID   string    `db:"mentor_id" json:"mentor_id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	AssignedBy string    `db:"assigned_by" json:"assigned_by"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}

// AssignmentDetail enriches an assignment with display names.
type AssignmentDetail struct {
	Assignment
	MentorName  string `db:"mentor_name" json:"mentor_name"`
	StudentName string `db:"student_name" json:"student_name"`
}
