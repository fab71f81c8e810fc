package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"robohub/hub-api/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNoCookie     = errors.New("no auth_token cookie")
	ErrTokenInvalid = errors.New("token_invalid")
	ErrTokenExpired = errors.New("token_expired")
	ErrUserNotFound = errors.New("user_not_found")
)

// UserFromRequest validates the auth_token cookie against the database
// and returns the authenticated user's ID. Route groups that need a
// different error shape than NewJWTMiddleware call this directly
func UserFromRequest(c *gin.Context, d *gorm.DB) (string, error) {
	tokenStr, err := c.Cookie("auth_token")
	if err != nil {
		return "", ErrNoCookie
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", ErrTokenInvalid
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() >= int64(exp) {
		return "", ErrTokenExpired
	}

	// The token may outlive the account it was issued for
	var user model.User
	err = d.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}

		return "", fmt.Errorf("failed to check if user exists, %w", err)
	}

	return userID, nil
}

func NewJWTMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		userID, err := UserFromRequest(c, d)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoCookie):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "No auth_token cookie",
					"requestID": requestID,
				})
			case errors.Is(err, ErrTokenInvalid),
				errors.Is(err, ErrTokenExpired),
				errors.Is(err, ErrUserNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     err.Error(),
					"requestID": requestID,
				})

				zap.L().Debug("Failed to authenticate request", zap.Error(err), zap.String("requestID", requestID))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "internal_server_error",
					"requestID": requestID,
				})

				zap.L().Error("Failed to authenticate request", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
