package api

import (
	"errors"
	"fmt"
	"net/http"

	"robohub/hub-api/model"
	"robohub/hub-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ModelDownload bundles every file under the model's folder prefix into
// one zip archive and streams it out, then bumps the download counters
func (a *API) ModelDownload(c *gin.Context) {
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

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, c.Param("name")))

	err = service.WriteZip(c.Request.Context(), a.S3, m.FolderPath, c.Writer)
	if err != nil {
		// Headers may already be out, logging is all that's left
		zap.L().Error("Failed to stream model archive", zap.Error(err), zap.String("model", m.Name))
		c.Abort()
		return
	}

	err = a.DB.
		Model(model.Model{}).
		Where("id = ?", m.ID).
		Update("downloads", gorm.Expr("downloads + ?", 1)).
		Error
	if err != nil {
		zap.L().Error("Failed to increment download counter", zap.Error(err), zap.String("model", m.Name))
		return
	}

	err = a.DB.
		Model(model.Stats{}).
		Where("user_id = ?", m.UserID).
		Update("total_downloads", gorm.Expr("total_downloads + ?", 1)).
		Error
	if err != nil {
		zap.L().Error("Failed to increment owner download stats", zap.Error(err), zap.String("model", m.Name))
	}
}
