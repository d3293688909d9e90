package services

import (
	"context"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/auth"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

const minPasswordLength = 6

// UserStore is the slice of the user repository the user service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter *dto.UserFilter, offset, limit int) ([]*models.User, int64, error)
	AttachProfiles(ctx context.Context, users []*models.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Deactivate(ctx context.Context, id string) error
}

// UserService handles account administration.
type UserService struct {
	users UserStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// CreateUser creates an account with a hashed password
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, apperrors.ErrInvalidRole
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers lists active accounts matching the filter
func (s *UserService) ListUsers(ctx context.Context, filter *dto.UserFilter) (*dto.UserListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)

	users, total, err := s.users.List(ctx, filter, int(offset), limit)
	if err != nil {
		return nil, err
	}
	if err := s.users.AttachProfiles(ctx, users); err != nil {
		return nil, err
	}

	return &dto.UserListResponse{
		Users:      users,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// ChangePassword verifies the current password and replaces it
func (s *UserService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return apperrors.ErrPasswordTooShort
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}

// DeactivateUser soft deletes an account
func (s *UserService) DeactivateUser(ctx context.Context, id string) error {
	return s.users.Deactivate(ctx, id)
}
