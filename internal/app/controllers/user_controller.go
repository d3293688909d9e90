package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// UserController handles account administration endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// List returns active accounts with their student or brigade links
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role"
// @Param search query string false "Name or email search"
// @Success 200 {object} dto.UserListResponse
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	filter := &dto.UserFilter{
		Role:   models.Role(ctx.Query("role")),
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	resp, err := c.userService.ListUsers(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Create adds an account
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} dto.ErrorResponse "Invalid role, short password or duplicate email"
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("All fields are required"))
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// ChangePassword replaces the caller's password
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Passwords"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Wrong current password or short new one"
// @Router /users/change-password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Current and new passwords are required"))
		return
	}

	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), user.ID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}
