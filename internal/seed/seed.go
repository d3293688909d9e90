// Package seed creates the default records a fresh deployment needs.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/repositories"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/auth"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

// Default admin credentials for a fresh database. Meant to be changed right
// after the first login.
const (
	defaultAdminEmail    = "admin@brigadier.local"
	defaultAdminPassword = "admin123"
)

// CreateDefaultData ensures the default admin account exists
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool) error {
	userRepo := repositories.NewUserRepository(dbPool)

	if _, err := userRepo.GetByEmail(ctx, defaultAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     defaultAdminEmail,
		Password:  hash,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      models.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	logger.Info().Str("email", defaultAdminEmail).Msg("Created default admin account")
	return nil
}
