// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalogue-backend/internal/models"
	"catalogue-backend/internal/utils"
)

// AuthRequired rejects requests without a valid bearer token and loads the
// authenticated user into the context. The user row is fetched fresh so
// permission changes take effect without waiting for token expiry.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, db)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": err.Error()},
			})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID.String())
		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present but lets
// anonymous requests through untouched.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, db)
		if err == nil {
			c.Set("user_id", user.ID.String())
			c.Set("user", user)
		}
		c.Next()
	}
}

// StaffRequired must run after AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "Staff access required"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthRequired or
// OptionalAuth, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if v, exists := c.Get("user"); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func resolveUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errInvalidToken
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil, errExpiredToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errInvalidToken
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, errInvalidToken
	}
	if !user.IsActive {
		return nil, errInactiveAccount
	}

	return &user, nil
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errMissingToken    = authError("Authentication required")
	errInvalidToken    = authError("Invalid authentication token")
	errExpiredToken    = authError("Authentication token is invalid or expired")
	errInactiveAccount = authError("Account is not activated")
)
