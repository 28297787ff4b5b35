package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/domain/repository"
)

const appointmentColumns = `id, first_name, last_name, email, phone, dob,
	gender, appointment_date, department, doctor_first_name, doctor_last_name,
	has_visited, address, doctor_id, patient_id, status, created_at, updated_at`

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	a := &entity.Appointment{}
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.DOB, &a.Gender, &a.AppointmentDate, &a.Department,
		&a.DoctorFirstName, &a.DoctorLastName, &a.HasVisited, &a.Address,
		&a.DoctorID, &a.PatientID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AppointmentRepository) Create(a *entity.Appointment) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (first_name, last_name, email, phone, dob,
			gender, appointment_date, department, doctor_first_name,
			doctor_last_name, has_visited, address, doctor_id, patient_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`, a.FirstName, a.LastName, a.Email, a.Phone, a.DOB, a.Gender,
		a.AppointmentDate, a.Department, a.DoctorFirstName, a.DoctorLastName,
		a.HasVisited, a.Address, a.DoctorID, a.PatientID, a.Status)

	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AppointmentRepository) GetByID(id string) (*entity.Appointment, error) {
	ctx := context.Background()
	return scanAppointment(r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id))
}

func (r *AppointmentRepository) List() ([]*entity.Appointment, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

func (r *AppointmentRepository) UpdateStatus(id string, status entity.AppointmentStatus) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		DELETE FROM appointments
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ repository.AppointmentRepository = (*AppointmentRepository)(nil)
