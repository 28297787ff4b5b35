package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names the embedded template to render; Data feeds it. Subject and
// Text may be set directly for one-off messages without a template.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "appointment_accepted", "appointment_rejected"
	Data     map[string]any `json:"data,omitempty"`
}
