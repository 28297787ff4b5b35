package entity

import "time"

// AppointmentStatus is the closed set of triage states. New bookings start
// Pending; only admins move them to Accepted or Rejected.
type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "Pending"
	StatusAccepted AppointmentStatus = "Accepted"
	StatusRejected AppointmentStatus = "Rejected"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

func (s AppointmentStatus) String() string { return string(s) }

// Appointment is a booking record. Patient contact fields and the doctor
// name are denormalized copies taken at creation time; DoctorID and
// PatientID remain as references into users.
type Appointment struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	DOB       string
	Gender    Gender

	AppointmentDate string
	Department      string

	// Doctor name snapshot, not a live reference.
	DoctorFirstName string
	DoctorLastName  string

	HasVisited bool
	Address    string

	DoctorID  string
	PatientID string
	Status    AppointmentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PatientName returns the booked patient's display name.
func (a *Appointment) PatientName() string {
	return a.FirstName + " " + a.LastName
}

// DoctorName returns the snapshotted doctor display name.
func (a *Appointment) DoctorName() string {
	return a.DoctorFirstName + " " + a.DoctorLastName
}
