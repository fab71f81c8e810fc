package api

import (
	"net/http"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) DeploymentList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var deployments []model.Deployment

	err := a.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&deployments).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list deployments", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, deployments)
}
