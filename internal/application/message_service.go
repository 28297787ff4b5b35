package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	repo "github.com/cliniiq/hospital-api/internal/domain/repository"
)

// MessageService stores contact-form submissions for the admin dashboard.
type MessageService struct {
	Messages repo.MessageRepository
	Logger   *logrus.Logger
}

type MessageInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Body      string
}

func (s *MessageService) Send(ctx context.Context, in MessageInput) (*entity.Message, error) {
	m := &entity.Message{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Body:      in.Body,
	}
	if err := s.Messages.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MessageService) List(ctx context.Context) ([]*entity.Message, error) {
	return s.Messages.List()
}
