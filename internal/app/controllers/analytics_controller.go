package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
)

// AnalyticsController handles the dashboard endpoint
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
	}
}

// Dashboard returns statistics shaped by the caller's role
// @Summary Get dashboard statistics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardStats
// @Router /analytics/dashboard [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenMissing)
		return
	}

	stats, err := c.analyticsService.Dashboard(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
