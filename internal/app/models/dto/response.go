package dto

// MessageResponse is a standard success reply for mutations without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// PaginationInfo is the standard pagination block attached to list responses.
type PaginationInfo struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}
