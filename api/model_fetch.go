package api

import (
	"errors"
	"net/http"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModelFetch returns a single model by its owner-qualified name
func (a *API) ModelFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	name := c.Param("owner") + "/" + c.Param("name")

	var m model.Model

	err := a.DB.
		Where("name = ? AND is_public = ?", name, true).
		First(&m).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Model not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch model", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, m)
}
