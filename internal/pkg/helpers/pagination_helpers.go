package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
)

// ParsePaginationParams extracts 1-based page and limit query parameters.
// defaultLimit is the per-resource page size used when the limit is absent or
// invalid; values outside (0, MaxPageSize] fall back to DefaultPageSize.
func ParsePaginationParams(c *gin.Context, defaultLimit int) (page, limit int) {
	if defaultLimit <= 0 || defaultLimit > MaxPageSize {
		defaultLimit = DefaultPageSize
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > MaxPageSize {
		limit = defaultLimit
	}

	return page, limit
}

// CalculateOffsetLimit converts a 1-based page number into an SQL offset.
func CalculateOffsetLimit(page, limit int) (offset uint64, lim int) {
	if limit <= 0 || limit > MaxPageSize {
		lim = DefaultPageSize
	} else {
		lim = limit
	}
	if page < 1 {
		page = DefaultPage
	}
	return uint64((page - 1) * lim), lim
}

// NewPaginationInfo builds the standard pagination block for list responses.
func NewPaginationInfo(totalItems int64, page, limit int) dto.PaginationInfo {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(limit)))
	} else if page == 1 {
		totalPages = 1
	}

	currentPage := page
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
	}
}
