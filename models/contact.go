package models

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        int    `json:"id"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Subject   string `json:"subject"`
	Message   string `json:"message" validate:"required,min=10"`
	CreatedAt string `json:"createdAt,omitempty"`
}
