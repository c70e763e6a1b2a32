package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/roster-api/internal/middleware"
	"github.com/mentorhub/roster-api/internal/models"
	"github.com/mentorhub/roster-api/pkg/response"
)

type rosterService interface {
	Roster(ctx context.Context, chapterID string, term models.Term) (*models.RosterView, error)
}

// RosterHandler exposes the roster planning view.
type RosterHandler struct {
	roster rosterService
	terms  termResolver
}

// NewRosterHandler constructs a roster handler.
func NewRosterHandler(roster rosterService, terms termResolver) *RosterHandler {
	return &RosterHandler{roster: roster, terms: terms}
}

// Roster godoc
// @Summary Availability grid for a chapter and term
// @Description Computes the per-cell checked/disabled state used by planning UIs to avoid double bookings
// @Tags Roster
// @Produce json
// @Param id path string true "Chapter ID"
// @Param year query int false "Target year"
// @Param termId query string false "Term ID"
// @Param date query string false "Target date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /chapters/{id}/roster [get]
func (h *RosterHandler) Roster(c *gin.Context) {
	term, err := h.terms.Resolve(c.Request.Context(), termSelectorFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.roster.Roster(c.Request.Context(), c.Param("id"), *term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}
