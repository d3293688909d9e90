package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	StudentRepository      *StudentRepository
	BrigadeRepository      *BrigadeRepository
	EventRepository        *EventRepository
	AttendanceRepository   *AttendanceRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		StudentRepository:      NewStudentRepository(db),
		BrigadeRepository:      NewBrigadeRepository(db),
		EventRepository:        NewEventRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
