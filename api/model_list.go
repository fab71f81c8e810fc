package api

import (
	"net/http"
	"strconv"
	"strings"

	"robohub/hub-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModelList serves the public model catalog. Filters arrive as comma
// separated query params, a bad page or sort key is rejected outright
func (a *API) ModelList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Page must be a positive integer",
			"requestID": requestID,
		})
		return
	}

	sort := service.SortKey(c.DefaultQuery("sort", string(service.SortTrending)))
	if !service.ValidSort(sort) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid sorting option",
			"requestID": requestID,
		})
		return
	}

	q := service.CatalogQuery{
		Tasks:    splitList(c.Query("tasks")),
		Licenses: splitList(c.Query("licenses")),
		Search:   c.Query("search"),
		Sort:     sort,
		Page:     page,
	}

	result, err := a.Catalog.List(c.Request.Context(), q)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list models", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, result)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
