// Package controllers contains the gin HTTP handlers. Controllers bind and
// sanity-check the request, resolve the caller's access scope where needed,
// and delegate the rest to the services.
package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
)

// resolveScope loads the authenticated user and computes its access scope.
// On failure the error response is already written and ok is false.
func resolveScope(ctx *gin.Context, resolver *auth.ScopeResolver) (auth.Scope, *models.User, bool) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return auth.Scope{}, nil, false
	}

	scope, err := resolver.Resolve(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return auth.Scope{}, nil, false
	}

	return scope, user, true
}
