package dto

import "github.com/meeras/brigadier/internal/app/models"

// CreateStudentRequest is the body of POST /api/students.
type CreateStudentRequest struct {
	TempRollNumber    string  `json:"tempRollNumber" binding:"required"`
	FirstName         string  `json:"firstName" binding:"required"`
	LastName          string  `json:"lastName" binding:"required"`
	Email             *string `json:"email,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	BrigadeID         *string `json:"brigadeId,omitempty"`
	CreateUserAccount bool    `json:"createUserAccount"`
}

// UpdateStudentRequest is the body of PUT /api/students/:id. Nil fields are
// left untouched.
type UpdateStudentRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BrigadeID *string `json:"brigadeId,omitempty"`
}

// StudentListResponse is the paginated reply of GET /api/students.
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// StudentFilter collects the query filters of GET /api/students.
type StudentFilter struct {
	Search    string
	BrigadeID string
	Page      int
	Limit     int
}
