package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorhub/roster-api/internal/models"
)

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	return page, size
}

func termSelectorFromQuery(c *gin.Context) models.TermSelector {
	var selector models.TermSelector
	if year := c.Query("year"); year != "" {
		if parsed, err := strconv.Atoi(year); err == nil {
			selector.Year = parsed
		}
	}
	selector.TermID = c.Query("termId")
	selector.Date = c.Query("date")
	return selector
}
