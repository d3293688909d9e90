package dto

import "github.com/meeras/brigadier/internal/app/models"

// CreateBrigadeRequest is the body of POST /api/brigades.
type CreateBrigadeRequest struct {
	Name     string  `json:"name" binding:"required"`
	LeaderID *string `json:"leaderId,omitempty"`
}

// UpdateBrigadeRequest is the body of PUT /api/brigades/:id. A non-nil
// LeaderID pointing at an empty string clears the leader.
type UpdateBrigadeRequest struct {
	Name     *string `json:"name,omitempty"`
	LeaderID *string `json:"leaderId,omitempty"`
}

// BrigadeListResponse is the paginated reply of GET /api/brigades.
type BrigadeListResponse struct {
	Brigades   []*models.Brigade `json:"brigades"`
	Pagination PaginationInfo    `json:"pagination"`
}
