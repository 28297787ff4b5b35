package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/domain/repository"
)

// ErrNotFound is returned when a row does not exist or an update matched
// nothing.
var ErrNotFound = errors.New("not found")

const userColumns = `id, first_name, last_name, email, phone, dob, gender,
	password_hash, role, department, avatar_object_id, avatar_url,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.DOB, &u.Gender, &u.Password, &u.Role, &u.Department,
		&u.AvatarObjectID, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, dob, gender,
			password_hash, role, department, avatar_object_id, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, u.FirstName, u.LastName, u.Email, u.Phone, u.DOB, u.Gender,
		u.Password, u.Role, u.Department, u.AvatarObjectID, u.AvatarURL)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetDoctorByName(firstName, lastName, department string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1 AND first_name = $2 AND last_name = $3 AND department = $4
	`, entity.RoleDoctor, firstName, lastName, department))
}

func (r *UserRepository) ListDoctors() ([]*entity.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1
		ORDER BY created_at
	`, entity.RoleDoctor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, u)
	}
	return doctors, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
