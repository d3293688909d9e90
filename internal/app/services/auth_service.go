package services

import (
	"context"
	"errors"
	"time"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/auth"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

// AuthUserStore is the slice of the user repository the auth service needs.
type AuthUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// AuthStudentStore resolves students for profile embedding and roll-number login.
type AuthStudentStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
}

// AuthBrigadeStore loads the brigades a lead manages for profile embedding.
type AuthBrigadeStore interface {
	ListByLeader(ctx context.Context, leaderID string) ([]*models.Brigade, error)
}

// AuthService handles the login flows and the current-user profile.
type AuthService struct {
	users    AuthUserStore
	students AuthStudentStore
	brigades AuthBrigadeStore
	jwt      *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users AuthUserStore, students AuthStudentStore, brigades AuthBrigadeStore, jwt *auth.JWTService) *AuthService {
	return &AuthService{
		users:    users,
		students: students,
		brigades: brigades,
		jwt:      jwt,
	}
}

// Login authenticates by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issueToken(ctx, user, req.Password)
}

// StudentLogin authenticates by temporary roll number and password. The roll
// number resolves to the linked user account, which must exist and be active.
func (s *AuthService) StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	student, err := s.students.GetByRollNumber(ctx, req.TempRollNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if student.UserID == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, *student.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issueToken(ctx, user, req.Password)
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User, password string) (*dto.AuthResponse, error) {
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// A failed stamp should not block the login itself.
		logger.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update last login")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.loadProfile(ctx, user); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}

// GetProfile returns the user with its student record and led brigades embedded
func (s *AuthService) GetProfile(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.loadProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) loadProfile(ctx context.Context, user *models.User) error {
	switch user.Role {
	case models.RoleStudent:
		student, err := s.students.GetByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrStudentNotFound) {
				return nil
			}
			return err
		}
		user.Student = student
	case models.RoleBrigadeLead:
		brigades, err := s.brigades.ListByLeader(ctx, user.ID)
		if err != nil {
			return err
		}
		user.Brigades = brigades
	}
	return nil
}
