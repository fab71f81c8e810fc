package api

import (
	"net/http"
	"slices"
	"strings"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var validDatasetSorts = []string{"downloads", "date", "size"}

// DatasetList serves the curated dataset catalog with the same filter
// shape as the model catalog: categories and licenses as comma lists,
// free-text search against name and description
func (a *API) DatasetList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	sort := strings.ToLower(c.DefaultQuery("sort", "downloads"))
	if !slices.Contains(validDatasetSorts, sort) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid sorting option",
			"requestID": requestID,
		})
		return
	}

	order := ""
	switch sort {
	case "downloads":
		order = "downloads desc"
	case "date":
		order = "updated_at desc"
	case "size":
		order = "samples desc"
	}

	tx := a.DB.Model(&model.Dataset{})

	if categories := splitList(c.Query("categories")); len(categories) > 0 {
		tx = tx.Where("category IN ?", categories)
	}

	if licenses := splitList(c.Query("licenses")); len(licenses) > 0 {
		tx = tx.Where("license IN ?", licenses)
	}

	if search := strings.ToLower(c.Query("search")); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var datasets []model.Dataset

	err := tx.Order(order).Find(&datasets).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list datasets", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, datasets)
}
