package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mentorhub/roster-api/internal/models"
)

// ChapterRepository reads chapters and their roster membership.
type ChapterRepository struct {
	db *sqlx.DB
}

// NewChapterRepository instantiates a chapter repository.
func NewChapterRepository(db *sqlx.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// FindByID loads a chapter by identifier.
func (r *ChapterRepository) FindByID(ctx context.Context, id string) (*models.Chapter, error) {
	const query = `SELECT id, name, region, created_at FROM chapters WHERE id = $1`
	var chapter models.Chapter
	if err := r.db.GetContext(ctx, &chapter, query, id); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// ListMentors returns the active mentors of a chapter.
func (r *ChapterRepository) ListMentors(ctx context.Context, chapterID string) ([]models.Mentor, error) {
	const query = `SELECT id, chapter_id, full_name, email, is_active, created_at FROM mentors WHERE chapter_id = $1 AND is_active = TRUE ORDER BY full_name ASC`
	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query, chapterID); err != nil {
		return nil, err
	}
	return mentors, nil
}

// ListStudents returns the active students of a chapter.
func (r *ChapterRepository) ListStudents(ctx context.Context, chapterID string) ([]models.Student, error) {
	const query = `SELECT id, chapter_id, full_name, school_year, is_active, created_at FROM students WHERE chapter_id = $1 AND is_active = TRUE ORDER BY full_name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, chapterID); err != nil {
		return nil, err
	}
	return students, nil
}
