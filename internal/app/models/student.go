package models

import "time"

// Student defines the student model based on the 'students' table.
// Students are soft-deleted: is_active=false keeps attendance history intact.
type Student struct {
	ID             string    `json:"id" db:"id"`
	TempRollNumber string    `json:"tempRollNumber" db:"temp_roll_number"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Email          *string   `json:"email,omitempty" db:"email"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	BrigadeID      *string   `json:"brigadeId,omitempty" db:"brigade_id"`
	UserID         *string   `json:"userId,omitempty" db:"user_id"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	Brigade           *Brigade            `json:"brigade,omitempty"`
	User              *User               `json:"user,omitempty"`
	AttendanceRecords []*AttendanceRecord `json:"attendanceRecords,omitempty"`
}
