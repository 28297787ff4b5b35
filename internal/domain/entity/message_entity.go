package entity

import "time"

// Message is a contact-form submission. Unauthenticated visitors send them;
// admins read them from the dashboard.
type Message struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Body      string
	CreatedAt time.Time
}
