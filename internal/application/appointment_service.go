package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	repo "github.com/cliniiq/hospital-api/internal/domain/repository"
	"github.com/cliniiq/hospital-api/pkg/mailer"
	tpl "github.com/cliniiq/hospital-api/pkg/mailer/templates"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// AppointmentService handles booking by patients and triage by admins.
type AppointmentService struct {
	Appointments repo.AppointmentRepository
	Users        repo.UserRepository
	Pub          Publisher
	Logger       *logrus.Logger
	HospitalName string
	MailEnabled  bool
}

// BookInput carries the patient-submitted booking form. Patient contact
// fields are denormalized onto the appointment row.
type BookInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	DOB             string
	Gender          entity.Gender
	AppointmentDate string
	Department      string
	DoctorFirstName string
	DoctorLastName  string
	HasVisited      bool
	Address         string
}

// Book resolves the requested doctor by exact name within the department and
// persists a Pending appointment linked to both doctor and patient.
func (s *AppointmentService) Book(ctx context.Context, patientID string, in BookInput) (*entity.Appointment, error) {
	doctor, err := s.Users.GetDoctorByName(in.DoctorFirstName, in.DoctorLastName, in.Department)
	if err != nil || doctor == nil {
		return nil, ErrDoctorNotFound
	}

	a := &entity.Appointment{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		Phone:           in.Phone,
		DOB:             in.DOB,
		Gender:          in.Gender,
		AppointmentDate: in.AppointmentDate,
		Department:      in.Department,
		DoctorFirstName: in.DoctorFirstName,
		DoctorLastName:  in.DoctorLastName,
		HasVisited:      in.HasVisited,
		Address:         in.Address,
		DoctorID:        doctor.ID,
		PatientID:       patientID,
		Status:          entity.StatusPending,
	}
	if err := s.Appointments.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns every appointment, newest first.
func (s *AppointmentService) List(ctx context.Context) ([]*entity.Appointment, error) {
	return s.Appointments.List()
}

// UpdateStatus moves an appointment to the given status. Setting the current
// status again is a success no-op and sends nothing. Accepted and Rejected
// transitions enqueue a notification to the patient; Pending never does.
// Returns the appointment and whether the status actually changed.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status entity.AppointmentStatus) (*entity.Appointment, bool, error) {
	a, err := s.Appointments.GetByID(id)
	if err != nil || a == nil {
		return nil, false, ErrAppointmentNotFound
	}
	if a.Status == status {
		return a, false, nil
	}
	if err := s.Appointments.UpdateStatus(id, status); err != nil {
		return nil, false, err
	}
	a.Status = status

	if status != entity.StatusPending {
		s.enqueueStatusMail(ctx, a)
	}
	return a, true, nil
}

// Delete removes an appointment.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Appointments.GetByID(id); err != nil {
		return ErrAppointmentNotFound
	}
	return s.Appointments.Delete(id)
}

// enqueueStatusMail publishes the accepted/rejected notification. Publish
// failures are logged and never fail or roll back the status update.
func (s *AppointmentService) enqueueStatusMail(ctx context.Context, a *entity.Appointment) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	name := tpl.AppointmentAccepted
	if a.Status == entity.StatusRejected {
		name = tpl.AppointmentRejected
	}
	data := tpl.EmailData{
		Name:            a.PatientName(),
		HospitalName:    s.HospitalName,
		AppointmentDate: a.AppointmentDate,
		DoctorName:      a.DoctorName(),
		Department:      a.Department,
	}
	job := mailer.EmailJob{To: a.Email, Template: name, Data: toMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"appointment_id": a.ID,
			"status":         a.Status,
		}).Warn("status email enqueue failed")
	}
}
