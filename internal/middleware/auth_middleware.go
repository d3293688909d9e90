package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/auth"
)

// currentUserKey is the gin context key for the authenticated user.
const currentUserKey = "currentUser"

// UserLoader fetches the account behind a validated token. The auth
// middleware always loads the row fresh so deactivation takes effect
// immediately, not at token expiry.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// JWTAuth validates the bearer token and stores the loaded user in the
// context. Missing credentials are 401; a bad token or disabled account is 403.
func JWTAuth(jwtService *auth.JWTService, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, err := auth.ExtractBearerToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Access token required"))
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("Invalid or expired token"))
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse("Invalid or expired token"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by JWTAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireRoles rejects requests whose authenticated user holds none of the
// given roles
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		HandleAPIError(c, apperrors.ErrPermissionDenied)
		c.Abort()
	}
}
