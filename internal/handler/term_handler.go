package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/roster-api/internal/models"
	"github.com/mentorhub/roster-api/internal/service"
	"github.com/mentorhub/roster-api/pkg/response"
)

// TermHandler exposes the term catalog and the session calendar.
type TermHandler struct {
	terms    *service.TermService
	calendar *service.CalendarService
}

// NewTermHandler constructs a term handler.
func NewTermHandler(terms *service.TermService, calendar *service.CalendarService) *TermHandler {
	return &TermHandler{terms: terms, calendar: calendar}
}

// List godoc
// @Summary List terms
// @Tags Terms
// @Produce json
// @Param year query int false "Filter by year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	var filter models.TermFilter
	if year := c.Query("year"); year != "" {
		if parsed, err := strconv.Atoi(year); err == nil {
			filter.Year = parsed
		}
	}
	filter.Page, filter.PageSize = pageParams(c)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	terms, pagination, err := h.terms.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, pagination)
}

// Resolve godoc
// @Summary Resolve the applicable term
// @Description Resolves by explicit year/termId or by date; a date in a gap belongs to the upcoming term
// @Tags Terms
// @Produce json
// @Param year query int false "Target year"
// @Param termId query string false "Term ID within the year"
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /terms/resolve [get]
func (h *TermHandler) Resolve(c *gin.Context) {
	term, err := h.terms.Resolve(c.Request.Context(), termSelectorFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// SessionDates godoc
// @Summary List a term's weekly session dates
// @Tags Terms
// @Produce json
// @Param id path string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /terms/{id}/session-dates [get]
func (h *TermHandler) SessionDates(c *gin.Context) {
	term, err := h.terms.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"term_id": term.ID,
		"dates":   h.calendar.SessionDateStrings(*term),
	}, nil)
}
