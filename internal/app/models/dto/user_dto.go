package dto

import "github.com/meeras/brigadier/internal/app/models"

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required"`
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
	Role      models.Role `json:"role" binding:"required"`
}

// UserFilter collects the query filters of GET /api/users.
type UserFilter struct {
	Role   models.Role
	Search string
	Page   int
	Limit  int
}

// UserListResponse is the paginated reply of GET /api/users.
type UserListResponse struct {
	Users      []*models.User `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}
