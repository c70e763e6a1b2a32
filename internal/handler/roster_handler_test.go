package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/roster-api/internal/models"
	appErrors "github.com/mentorhub/roster-api/pkg/errors"
)

type mockRosterService struct {
	view         *models.RosterView
	err          error
	gotChapterID string
	gotTermID    string
}

func (m *mockRosterService) Roster(ctx context.Context, chapterID string, term models.Term) (*models.RosterView, error) {
	m.gotChapterID = chapterID
	m.gotTermID = term.ID
	return m.view, m.err
}

func TestRosterHandlerRoster(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		term := &models.Term{ID: "t1", Year: 2023, Label: "Spring"}
		roster := &mockRosterService{
			view: &models.RosterView{
				ChapterID: "ch-1",
				Term:      *term,
				Dates:     []string{"2023-02-06", "2023-02-13"},
				Rows: []models.RosterRow{
					{
						StudentID: "s-1",
						MentorID:  "m-1",
						Assigned:  true,
						Cells: map[string]models.GridCell{
							"2023-02-06": {Checked: true},
							"2023-02-13": {},
						},
					},
				},
			},
		}
		h := NewRosterHandler(roster, &mockTermResolver{term: term})

		c, recorder := newTestContext(t, http.MethodGet, "/chapters/ch-1/roster?termId=t1&year=2023", nil)
		c.Params = gin.Params{{Key: "id", Value: "ch-1"}}

		h.Roster(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "ch-1", roster.gotChapterID)
		assert.Equal(t, "t1", roster.gotTermID)

		var envelope struct {
			Data models.RosterView `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, []string{"2023-02-06", "2023-02-13"}, envelope.Data.Dates)
		require.Len(t, envelope.Data.Rows, 1)
		assert.True(t, envelope.Data.Rows[0].Cells["2023-02-06"].Checked)
	})

	t.Run("term resolution failure short-circuits", func(t *testing.T) {
		roster := &mockRosterService{}
		h := NewRosterHandler(roster, &mockTermResolver{err: appErrors.Clone(appErrors.ErrNotFound, "no terms configured")})

		c, recorder := newTestContext(t, http.MethodGet, "/chapters/ch-1/roster", nil)
		c.Params = gin.Params{{Key: "id", Value: "ch-1"}}

		h.Roster(c)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Empty(t, roster.gotChapterID)
	})

	t.Run("chapter not found", func(t *testing.T) {
		term := &models.Term{ID: "t1"}
		roster := &mockRosterService{err: appErrors.Clone(appErrors.ErrNotFound, "chapter not found")}
		h := NewRosterHandler(roster, &mockTermResolver{term: term})

		c, recorder := newTestContext(t, http.MethodGet, "/chapters/missing/roster", nil)
		c.Params = gin.Params{{Key: "id", Value: "missing"}}

		h.Roster(c)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
