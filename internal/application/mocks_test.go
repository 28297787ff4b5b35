package application

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/pkg/mailer"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users   map[string]*entity.User // keyed by id
	byEmail map[string]*entity.User
	created []*entity.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   map[string]*entity.User{},
		byEmail: map[string]*entity.User{},
	}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.nextID++
	if u.ID == "" {
		u.ID = "user-" + strconv.Itoa(r.nextID)
	}
	r.users[u.ID] = u
	r.byEmail[u.Email] = u
	r.created = append(r.created, u)
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) GetDoctorByName(firstName, lastName, department string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Role == entity.RoleDoctor &&
			u.FirstName == firstName && u.LastName == lastName && u.Department == department {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListDoctors() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Role == entity.RoleDoctor {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeAppointmentRepo is an in-memory AppointmentRepository.
type fakeAppointmentRepo struct {
	appointments map[string]*entity.Appointment
	created      []*entity.Appointment
	updates      []entity.AppointmentStatus
	deleted      []string
	nextID       int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[string]*entity.Appointment{}}
}

func (r *fakeAppointmentRepo) Create(a *entity.Appointment) error {
	r.nextID++
	if a.ID == "" {
		a.ID = "appt-" + strconv.Itoa(r.nextID)
	}
	r.appointments[a.ID] = a
	r.created = append(r.created, a)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(id string) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (r *fakeAppointmentRepo) List() ([]*entity.Appointment, error) {
	out := make([]*entity.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(id string, status entity.AppointmentStatus) error {
	a, ok := r.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Status = status
	r.updates = append(r.updates, status)
	return nil
}

func (r *fakeAppointmentRepo) Delete(id string) error {
	delete(r.appointments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	messages []*entity.Message
}

func (r *fakeMessageRepo) Create(m *entity.Message) error {
	m.ID = "msg-" + strconv.Itoa(len(r.messages)+1)
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeMessageRepo) List() ([]*entity.Message, error) {
	return r.messages, nil
}

// fakePublisher records published email jobs.
type fakePublisher struct {
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(ctx context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var job mailer.EmailJob
	if err := json.Unmarshal(b, &job); err != nil {
		return err
	}
	p.jobs = append(p.jobs, job)
	return nil
}
