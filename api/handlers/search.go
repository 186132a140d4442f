package handlers

import (
	"net/http"
	"strconv"

	"hobbynet/services"

	"github.com/gin-gonic/gin"
)

var similarityService = services.NewSimilarityService()

// UserSearch ranks other users by shared hobbies, with optional age
// bounds. Query params: min_age, max_age, page.
func UserSearch(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var filters services.SearchFilters

	if raw := c.Query("min_age"); raw != "" {
		minAge, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_age must be an integer"})
			return
		}
		filters.MinAge = &minAge
	}
	if raw := c.Query("max_age"); raw != "" {
		maxAge, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_age must be an integer"})
			return
		}
		filters.MaxAge = &maxAge
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
			return
		}
		filters.Page = page
	}

	result, err := similarityService.Search(c.Request.Context(), userID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
