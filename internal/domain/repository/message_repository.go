package repository

import "github.com/cliniiq/hospital-api/internal/domain/entity"

// MessageRepository defines the interface for contact-message persistence.
type MessageRepository interface {
	Create(m *entity.Message) error
	List() ([]*entity.Message, error)
}
