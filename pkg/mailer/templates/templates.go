package templates

import (
	"bytes"
	"embed"
	"fmt"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	Welcome             = "welcome"
	AppointmentAccepted = "appointment_accepted"
	AppointmentRejected = "appointment_rejected"
)

// EmailData carries the fields the notification templates render. Services
// convert it to a map for the queue payload; the worker feeds the map back in.
type EmailData struct {
	Name         string `json:"Name"`
	HospitalName string `json:"HospitalName"`

	// Appointment notifications
	AppointmentDate string `json:"AppointmentDate"`
	DoctorName      string `json:"DoctorName"`
	Department      string `json:"Department"`
}

// Subject returns the subject line for a template.
func Subject(name string, data map[string]any) (string, error) {
	switch name {
	case Welcome:
		return fmt.Sprintf("Welcome to %v", data["HospitalName"]), nil
	case AppointmentAccepted:
		return "Appointment Accepted", nil
	case AppointmentRejected:
		return "Appointment Rejected", nil
	}
	return "", fmt.Errorf("unknown template %q", name)
}

// Render loads the named template from the embedded FS and renders the text
// body with data.
func Render(name string, data map[string]any) (subject, text string, err error) {
	subject, err = Subject(name, data)
	if err != nil {
		return "", "", err
	}
	t, err := texttpl.ParseFS(FS, name+".tmpl")
	if err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
