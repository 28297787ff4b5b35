package handlers

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/pkg/helpers"
	"github.com/cliniiq/hospital-api/pkg/validation"
)

var setupOnce sync.Once

// testSetup puts gin in test mode and registers the binding aliases exactly
// once for the package.
func testSetup(t *testing.T) {
	t.Helper()
	setupOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		validation.Init()
	})
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-secret", time.Hour)
}

func testCookies() *helpers.Manager {
	return helpers.NewCookie("", false)
}

// memUserRepo is an in-memory UserRepository for handler tests.
type memUserRepo struct {
	users  map[string]*entity.User
	nextID int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(u *entity.User) error {
	r.nextID++
	if u.ID == "" {
		u.ID = "user-" + strconv.Itoa(r.nextID)
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetDoctorByName(firstName, lastName, department string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Role == entity.RoleDoctor &&
			u.FirstName == firstName && u.LastName == lastName && u.Department == department {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ListDoctors() ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Role == entity.RoleDoctor {
			out = append(out, u)
		}
	}
	return out, nil
}

// memAppointmentRepo is an in-memory AppointmentRepository for handler tests.
type memAppointmentRepo struct {
	appointments map[string]*entity.Appointment
	nextID       int
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{appointments: map[string]*entity.Appointment{}}
}

func (r *memAppointmentRepo) Create(a *entity.Appointment) error {
	r.nextID++
	if a.ID == "" {
		a.ID = "appt-" + strconv.Itoa(r.nextID)
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *memAppointmentRepo) GetByID(id string) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, errors.New("appointment missing")
	}
	return a, nil
}

func (r *memAppointmentRepo) List() ([]*entity.Appointment, error) {
	out := make([]*entity.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (r *memAppointmentRepo) UpdateStatus(id string, status entity.AppointmentStatus) error {
	if a, ok := r.appointments[id]; ok {
		a.Status = status
	}
	return nil
}

func (r *memAppointmentRepo) Delete(id string) error {
	delete(r.appointments, id)
	return nil
}
