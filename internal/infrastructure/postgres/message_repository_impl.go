package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/domain/repository"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(m *entity.Message) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO messages (first_name, last_name, email, phone, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, m.FirstName, m.LastName, m.Email, m.Phone, m.Body)

	return row.Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) List() ([]*entity.Message, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, email, phone, body, created_at
		FROM messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*entity.Message
	for rows.Next() {
		m := &entity.Message{}
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email,
			&m.Phone, &m.Body, &m.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
