package models

import "time"

type ContactStatus string

const (
	ContactPending   ContactStatus = "pending"
	ContactRead      ContactStatus = "read"
	ContactResponded ContactStatus = "responded"
)

type ContactSubmission struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type NewContactSubmission struct {
	Name    string
	Email   string
	Subject string
	Message string
}
