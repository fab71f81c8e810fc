package api

import (
	"net/http"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFetch returns the profile, stats and models of a user.
// This is used when initially loading the profile page
func (a *API) UserFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var user model.User
	err := a.DB.
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user profile", zap.Error(err))
		return
	}

	var models []model.Model
	err = a.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&models).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user models", zap.Error(err))
		return
	}

	var stats model.Stats
	err = a.DB.
		Where("user_id = ?", userID).
		First(&stats).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user stats", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"owner":  user.Owner(),
		"models": models,
		"stats":  stats,
	})
}
