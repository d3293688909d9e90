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

// StudentController handles student roster endpoints
type StudentController struct {
	studentService *services.StudentService
	scopes         *auth.ScopeResolver
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, scopes *auth.ScopeResolver) *StudentController {
	return &StudentController{
		studentService: studentService,
		scopes:         scopes,
	}
}

// List returns students visible to the caller
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param search query string false "Name, roll number or email search"
// @Param brigadeId query string false "Filter by brigade"
// @Success 200 {object} dto.StudentListResponse
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	page, limit := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)
	filter := &dto.StudentFilter{
		Search:    ctx.Query("search"),
		BrigadeID: ctx.Query("brigadeId"),
		Page:      page,
		Limit:     limit,
	}

	resp, err := c.studentService.ListStudents(ctx.Request.Context(), scope, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Get returns one student with attendance history
// @Summary Get a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} models.Student
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx.Request.Context(), scope, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Create adds a student, optionally with a linked login account
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Invalid or duplicate data"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Roll number, first name, and last name are required"))
		return
	}

	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	student, err := c.studentService.CreateStudent(ctx.Request.Context(), scope, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, student)
}

// Update applies a partial update to a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), scope, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Delete soft deletes a student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.MessageResponse
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	if err := c.studentService.DeleteStudent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Student deleted successfully"})
}
