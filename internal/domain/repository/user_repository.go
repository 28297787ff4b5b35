package repository

import "github.com/cliniiq/hospital-api/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	// GetDoctorByName resolves a doctor by exact first/last name within a
	// department; used when booking an appointment.
	GetDoctorByName(firstName, lastName, department string) (*entity.User, error)
	ListDoctors() ([]*entity.User, error)
}
