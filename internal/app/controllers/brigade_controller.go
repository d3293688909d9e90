package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// BrigadeController handles brigade endpoints
type BrigadeController struct {
	brigadeService *services.BrigadeService
	scopes         *auth.ScopeResolver
}

// NewBrigadeController creates a new BrigadeController
func NewBrigadeController(brigadeService *services.BrigadeService, scopes *auth.ScopeResolver) *BrigadeController {
	return &BrigadeController{
		brigadeService: brigadeService,
		scopes:         scopes,
	}
}

// List returns brigades visible to the caller
// @Summary List brigades
// @Tags brigades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BrigadeListResponse
// @Router /brigades [get]
func (c *BrigadeController) List(ctx *gin.Context) {
	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	page, limit := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	resp, err := c.brigadeService.ListBrigades(ctx.Request.Context(), scope, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Get returns one brigade with leader and students
// @Summary Get a brigade
// @Tags brigades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brigade ID"
// @Success 200 {object} models.Brigade
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /brigades/{id} [get]
func (c *BrigadeController) Get(ctx *gin.Context) {
	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	brigade, err := c.brigadeService.GetBrigade(ctx.Request.Context(), scope, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, brigade)
}

// Create adds a brigade
// @Summary Create a brigade
// @Tags brigades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBrigadeRequest true "Brigade"
// @Success 201 {object} models.Brigade
// @Failure 400 {object} dto.ErrorResponse "Duplicate name or invalid leader"
// @Router /brigades [post]
func (c *BrigadeController) Create(ctx *gin.Context) {
	var req dto.CreateBrigadeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Brigade name is required"))
		return
	}

	brigade, err := c.brigadeService.CreateBrigade(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, brigade)
}

// Update applies a partial update to a brigade
// @Summary Update a brigade
// @Tags brigades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brigade ID"
// @Param request body dto.UpdateBrigadeRequest true "Fields to change"
// @Success 200 {object} models.Brigade
// @Router /brigades/{id} [put]
func (c *BrigadeController) Update(ctx *gin.Context) {
	var req dto.UpdateBrigadeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	brigade, err := c.brigadeService.UpdateBrigade(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, brigade)
}

// Delete soft deletes a brigade without active students
// @Summary Delete a brigade
// @Tags brigades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brigade ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Brigade still has active students"
// @Router /brigades/{id} [delete]
func (c *BrigadeController) Delete(ctx *gin.Context) {
	if err := c.brigadeService.DeleteBrigade(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Brigade deleted successfully"})
}
