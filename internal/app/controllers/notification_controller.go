package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

const notificationPageSize = 20

// NotificationController handles announcement endpoints
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// List returns the caller's notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} dto.NotificationListResponse
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	page, limit := helpers.ParsePaginationParams(ctx, notificationPageSize)
	unreadOnly := ctx.Query("unreadOnly") == "true"

	resp, err := c.notificationService.List(ctx.Request.Context(), user.ID, unreadOnly, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// UnreadCount returns the caller's unread notification count
// @Summary Get the unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UnreadCountResponse
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	count, err := c.notificationService.UnreadCount(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead flags one of the caller's notifications as read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "User notification ID"
// @Success 200 {object} models.UserNotification
// @Failure 404 {object} dto.ErrorResponse "Not found or not the caller's"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	un, err := c.notificationService.MarkRead(ctx.Request.Context(), ctx.Param("id"), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, un)
}

// Create publishes an announcement and fans it out to its audience
// @Summary Create a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNotificationRequest true "Notification"
// @Success 201 {object} models.Notification
// @Router /notifications [post]
func (c *NotificationController) Create(ctx *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Title and message are required"))
		return
	}

	notification, err := c.notificationService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, notification)
}
