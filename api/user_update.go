package api

import (
	"net/http"
	"strings"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userUpdateBody struct {
	DisplayName string `json:"display_name"`
}

// UserUpdate changes the display name shown in owner-qualified model
// names. Existing model records keep the name they were published under
func (a *API) UserUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data userUpdateBody
	if err := c.BindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Malformed or invalid JSON request body",
			"requestID": requestID,
		})
		return
	}

	name := strings.TrimSpace(data.DisplayName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No display name provided",
			"requestID": requestID,
		})
		return
	}

	err := a.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Update("display_name", name).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update display name", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"display_name": name,
	})
}
