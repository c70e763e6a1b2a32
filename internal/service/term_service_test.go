package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/roster-api/internal/models"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
)

type mockTermRepository struct {
	terms   []models.Term
	total   int
	byID    map[string]*models.Term
	catalog []models.Term
	err     error
}

func (m *mockTermRepository) List(ctx context.Context, filter models.TermFilter) ([]models.Term, int, error) {
	return m.terms, m.total, m.err
}

func (m *mockTermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	if m.err != nil {
		return nil, m.err
	}
	term, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return term, nil
}

func (m *mockTermRepository) Catalog(ctx context.Context) ([]models.Term, error) {
	return m.catalog, m.err
}

func (m *mockTermRepository) CatalogByYear(ctx context.Context, year int) ([]models.Term, error) {
	var out []models.Term
	for _, term := range m.catalog {
		if term.Year == year {
			out = append(out, term)
		}
	}
	return out, m.err
}

func testCatalog() []models.Term {
	return []models.Term{
		{ID: "t1", Year: 2023, Label: "Spring", StartDate: day("2023-02-01"), EndDate: day("2023-04-06")},
		{ID: "t2", Year: 2023, Label: "Autumn", StartDate: day("2023-09-01"), EndDate: day("2023-11-30")},
		{ID: "t3", Year: 2024, Label: "Spring", StartDate: day("2024-02-01"), EndDate: day("2024-04-04")},
	}
}

func TestResolveTermByDate(t *testing.T) {
	catalog := testCatalog()

	cases := []struct {
		name   string
		date   string
		wantID string
	}{
		{"inside first term", "2023-03-15", "t1"},
		{"on term start", "2023-02-01", "t1"},
		{"on term end", "2023-04-06", "t1"},
		{"gap resolves to upcoming term", "2023-06-01", "t2"},
		{"before every term", "2022-12-25", "t1"},
		{"past every term wraps to first", "2024-07-01", "t1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			term := ResolveTermByDate(catalog, day(tc.date))
			assert.Equal(t, tc.wantID, term.ID)
		})
	}
}

func TestResolveTermBySelection(t *testing.T) {
	catalog := testCatalog()

	t.Run("id match wins", func(t *testing.T) {
		term := ResolveTermBySelection(catalog, 2023, "t2", day("2023-03-01"))
		assert.Equal(t, "t2", term.ID)
	})

	t.Run("unknown id falls back to date within year", func(t *testing.T) {
		term := ResolveTermBySelection(catalog, 2023, "nope", day("2023-10-01"))
		assert.Equal(t, "t2", term.ID)
	})

	t.Run("no id resolves by date within year", func(t *testing.T) {
		term := ResolveTermBySelection(catalog, 2023, "", day("2023-06-01"))
		assert.Equal(t, "t2", term.ID)
	})

	t.Run("empty year degrades to whole catalog", func(t *testing.T) {
		term := ResolveTermBySelection(catalog, 2099, "", day("2024-03-01"))
		assert.Equal(t, "t3", term.ID)
	})

	t.Run("id from another year is ignored", func(t *testing.T) {
		term := ResolveTermBySelection(catalog, 2024, "t1", day("2024-03-01"))
		assert.Equal(t, "t3", term.ID)
	})
}

func TestTermServiceResolve(t *testing.T) {
	repo := &mockTermRepository{catalog: testCatalog()}
	svc := NewTermService(repo, nil, nil, nil)

	t.Run("by date", func(t *testing.T) {
		term, err := svc.Resolve(context.Background(), models.TermSelector{Date: "2023-03-15"})
		require.NoError(t, err)
		assert.Equal(t, "t1", term.ID)
	})

	t.Run("by year and id", func(t *testing.T) {
		term, err := svc.Resolve(context.Background(), models.TermSelector{Year: 2023, TermID: "t2"})
		require.NoError(t, err)
		assert.Equal(t, "t2", term.ID)
	})

	t.Run("no selector still resolves", func(t *testing.T) {
		term, err := svc.Resolve(context.Background(), models.TermSelector{})
		require.NoError(t, err)
		assert.NotEmpty(t, term.ID)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), models.TermSelector{Date: "15-03-2023"})
		require.Error(t, err)
		appErr, ok := err.(*appErrors.Error)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	})

	t.Run("empty catalog", func(t *testing.T) {
		empty := NewTermService(&mockTermRepository{}, nil, nil, nil)
		_, err := empty.Resolve(context.Background(), models.TermSelector{Date: "2023-03-15"})
		require.Error(t, err)
		appErr, ok := err.(*appErrors.Error)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	})
}

func TestTermServiceGet(t *testing.T) {
	spring := testCatalog()[0]
	repo := &mockTermRepository{byID: map[string]*models.Term{"t1": &spring}}
	svc := NewTermService(repo, nil, nil, nil)

	t.Run("found", func(t *testing.T) {
		term, err := svc.Get(context.Background(), "t1")
		require.NoError(t, err)
		assert.Equal(t, "Spring", term.Label)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "missing")
		require.Error(t, err)
		appErr, ok := err.(*appErrors.Error)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	})
}

func TestTermServiceList(t *testing.T) {
	repo := &mockTermRepository{terms: testCatalog(), total: 3}
	svc := NewTermService(repo, nil, nil, nil)

	terms, pagination, err := svc.List(context.Background(), models.TermFilter{})
	require.NoError(t, err)
	assert.Len(t, terms, 3)
	require.NotNil(t, pagination)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 3, pagination.TotalCount)
}
