package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/internal/logging"
	"github.com/pageza/mealmind/backend/internal/models"
)

// RequireConfirmed rejects users whose account has not been confirmed
func RequireConfirmed(db *gorm.DB) gin.HandlerFunc {
	return requireUser(db, func(c *gin.Context, user *models.User) bool {
		if !user.IsConfirmed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "account confirmation required",
				"message": "Please confirm your account to access this feature",
			})
			return false
		}
		return true
	})
}

// RequireAdmin rejects users without the admin flag
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return requireUser(db, func(c *gin.Context, user *models.User) bool {
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return false
		}
		return true
	})
}

// CurrentUser returns the user loaded by RequireConfirmed or RequireAdmin
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func requireUser(db *gorm.DB, check func(*gin.Context, *models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			logging.L(c.Request.Context()).Error("failed to load user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to verify user status"})
			return
		}

		if !check(c, &user) {
			return
		}
		c.Set(userKey, &user)
		c.Next()
	}
}
