package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/pkg/helpers"
	tpl "github.com/cliniiq/hospital-api/pkg/mailer/templates"
)

func patientInput() RegisterInput {
	return RegisterInput{
		FirstName: "Rina",
		LastName:  "Putri",
		Email:     "rina@example.com",
		Phone:     "08123456789",
		DOB:       "1994-03-12",
		Gender:    entity.GenderFemale,
		Password:  "supersecret",
	}
}

func TestRegisterPatient(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := &UserService{Repo: repo, Pub: pub, HospitalName: "CliniIQ", MailEnabled: true}

	u, err := svc.RegisterPatient(context.Background(), patientInput())
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, entity.RolePatient, u.Role)
	assert.NotEqual(t, "supersecret", u.Password, "password must be stored hashed")
	assert.True(t, helpers.CheckPassword(u.Password, "supersecret"))

	require.Len(t, pub.jobs, 1)
	job := pub.jobs[0]
	assert.Equal(t, "rina@example.com", job.To)
	assert.Equal(t, tpl.Welcome, job.Template)
	assert.Equal(t, "Rina Putri", job.Data["Name"])
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &UserService{Repo: repo}

	_, err := svc.RegisterPatient(context.Background(), patientInput())
	require.NoError(t, err)

	_, err = svc.RegisterPatient(context.Background(), patientInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, repo.created, 1, "second registration must not persist")
}

func TestRegisterPatientPublishFailureDoesNotFail(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := &UserService{Repo: repo, Pub: pub, MailEnabled: true}

	u, err := svc.RegisterPatient(context.Background(), patientInput())
	require.NoError(t, err)
	assert.NotNil(t, u)
	assert.Len(t, repo.created, 1)
}

func TestRegisterPatientMailDisabledSendsNothing(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	svc := &UserService{Repo: repo, Pub: pub, MailEnabled: false}

	_, err := svc.RegisterPatient(context.Background(), patientInput())
	require.NoError(t, err)
	assert.Empty(t, pub.jobs)
}

func TestRegisterDoctorAvatarRequired(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &UserService{Repo: repo}

	_, err := svc.RegisterDoctor(context.Background(), patientInput(), "Cardiology", nil)
	assert.ErrorIs(t, err, ErrAvatarRequired)
	assert.Empty(t, repo.created, "validation failure must not persist anything")
}

func TestRegisterDoctorAvatarFormat(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &UserService{Repo: repo}

	avatar := &AvatarUpload{
		Reader:      strings.NewReader("%PDF-1.4"),
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
	}
	_, err := svc.RegisterDoctor(context.Background(), patientInput(), "Cardiology", avatar)
	assert.ErrorIs(t, err, ErrAvatarFormat)
	assert.Empty(t, repo.created)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := helpers.HashPassword("supersecret")
	require.NoError(t, err)
	require.NoError(t, repo.Create(&entity.User{
		Email:    "rina@example.com",
		Password: hash,
		Role:     entity.RolePatient,
	}))
	svc := &UserService{Repo: repo}

	t.Run("ok", func(t *testing.T) {
		u, err := svc.Login(context.Background(), "rina@example.com", "supersecret", entity.RolePatient)
		require.NoError(t, err)
		assert.Equal(t, "rina@example.com", u.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@example.com", "supersecret", entity.RolePatient)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "rina@example.com", "wrong", entity.RolePatient)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong role", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "rina@example.com", "supersecret", entity.RoleAdmin)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("wrong password and wrong role", func(t *testing.T) {
		// Credentials are checked before the role, so a bad password wins.
		_, err := svc.Login(context.Background(), "rina@example.com", "wrong", entity.RoleAdmin)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetProfile(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(&entity.User{ID: "u1", Email: "a@example.com", Role: entity.RoleAdmin}))
	svc := &UserService{Repo: repo}

	u, err := svc.GetProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)

	_, err = svc.GetProfile("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListDoctorsWithoutCache(t *testing.T) {
	repo := newFakeUserRepo()
	require.NoError(t, repo.Create(&entity.User{Email: "p@example.com", Role: entity.RolePatient}))
	require.NoError(t, repo.Create(&entity.User{Email: "d@example.com", Role: entity.RoleDoctor, Department: "ENT"}))
	svc := &UserService{Repo: repo}

	doctors, err := svc.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, entity.RoleDoctor, doctors[0].Role)
}
