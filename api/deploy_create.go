package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type deployBody struct {
	ModelName    string `json:"model_name"`
	Region       string `json:"region"`
	InstanceType string `json:"instance_type"`
	Replicas     int    `json:"replicas"`
	AutoScale    bool   `json:"auto_scale"`
}

// DeploymentCreate registers a mocked deployment. Nothing is actually
// provisioned, the record starts out running with zeroed metrics
func (a *API) DeploymentCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data deployBody
	if err := c.BindJSON(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	if data.ModelName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No model name provided",
			"requestID": requestID,
		})
		return
	}

	if data.Region == "" {
		data.Region = "us-east-1"
	}
	if data.InstanceType == "" {
		data.InstanceType = "gpu.t4"
	}
	if data.Replicas <= 0 {
		data.Replicas = 1
	}

	id, err := gonanoid.New(10)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	subdomain := strings.ToLower(strings.ReplaceAll(data.ModelName, "/", "-"))

	d := model.Deployment{
		ID:           "deploy-" + id,
		UserID:       userID,
		ModelName:    data.ModelName,
		Status:       model.DeployRunning,
		Region:       data.Region,
		InstanceType: data.InstanceType,
		Replicas:     data.Replicas,
		AutoScale:    data.AutoScale,
		URL:          fmt.Sprintf("https://%s.api.robohub.dev", subdomain),
		Uptime:       100,
		CreatedAt:    time.Now().UnixMilli(),
	}

	if err := a.DB.Create(&d).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create deployment", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, d)
}
