package dto

import "github.com/meeras/brigadier/internal/app/models"

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StudentLoginRequest is the body of POST /api/auth/student-login.
type StudentLoginRequest struct {
	TempRollNumber string `json:"tempRollNumber" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

// AuthResponse is the reply to a successful login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ChangePasswordRequest is the body of PUT /api/users/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
