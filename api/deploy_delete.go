package api

import (
	"net/http"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) DeploymentDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "ID is missing",
			"requestID": requestID,
		})
		return
	}

	res := a.DB.
		Where("user_id = ? AND id = ?", userID, id).
		Delete(model.Deployment{})
	if res.Error != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete deployment", zap.Error(res.Error))
		return
	}

	if res.RowsAffected == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Deployment not found. It either doesn't exist or you don't own it",
			"requestID": requestID,
		})
		return
	}

	c.Status(http.StatusOK)
}
