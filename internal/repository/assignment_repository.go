package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/roster-api/internal/models"
)

// AssignmentRepository reads standing mentor-student pairings.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository instantiates an assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByChapter returns a chapter's assignments with display names attached.
func (r *AssignmentRepository) ListByChapter(ctx context.Context, chapterID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.chapter_id, a.mentor_id, a.student_id, a.assigned_by, a.assigned_at,
		m.full_name AS mentor_name, s.full_name AS student_name
		FROM assignments a
		JOIN mentors m ON m.id = a.mentor_id
		JOIN students s ON s.id = a.student_id
		WHERE a.chapter_id = $1
		ORDER BY s.full_name ASC, m.full_name ASC`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, chapterID); err != nil {
		return nil, fmt.Errorf("list assignments for chapter %s: %w", chapterID, err)
	}
	return assignments, nil
}

// ExistsPair reports whether the mentor and student share a standing
// assignment.
func (r *AssignmentRepository) ExistsPair(ctx context.Context, mentorID, studentID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM assignments WHERE mentor_id = $1 AND student_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, mentorID, studentID); err != nil {
		return false, fmt.Errorf("check assignment pair: %w", err)
	}
	return exists, nil
}
