package repository

import "github.com/cliniiq/hospital-api/internal/domain/entity"

// AppointmentRepository defines the interface for appointment persistence.
type AppointmentRepository interface {
	Create(a *entity.Appointment) error
	GetByID(id string) (*entity.Appointment, error)
	List() ([]*entity.Appointment, error)
	UpdateStatus(id string, status entity.AppointmentStatus) error
	Delete(id string) error
}
