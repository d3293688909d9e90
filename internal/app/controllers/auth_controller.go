package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
)

// AuthController handles the login endpoints and the current-user profile
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Login handles email and password authentication
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Email and password are required"))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// StudentLogin handles roll-number authentication
// @Summary Log in with a temporary roll number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/student-login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Roll number and password are required"))
		return
	}

	resp, err := c.authService.StudentLogin(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user with student profile and led brigades
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	profile, err := c.authService.GetProfile(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": profile})
}
