package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepositoryListByChapter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "chapter_id", "mentor_id", "student_id", "assigned_by", "assigned_at", "mentor_name", "student_name"}).
		AddRow("as-1", "ch-1", "m-1", "s-1", "admin", now, "Maria Keller", "Jonas Brandt").
		AddRow("as-2", "ch-1", "m-1", "s-2", "admin", now, "Maria Keller", "Lea Voss")

	mock.ExpectQuery("FROM assignments a").
		WithArgs("ch-1").
		WillReturnRows(rows)

	assignments, err := repo.ListByChapter(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "Maria Keller", assignments[0].MentorName)
	assert.Equal(t, "s-2", assignments[1].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsPair(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("m-1", "s-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsPair(context.Background(), "m-1", "s-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
