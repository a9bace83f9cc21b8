package models

// Event statuses as stored in the events.status column.
const (
	EventScheduled = "Programado"
	EventOngoing   = "En_Curso"
	EventFinished  = "Finalizado"
)

// Event is a capacity-limited activity people sign up for. Registered is a
// counter maintained by the store and never exceeds Capacity.
type Event struct {
	ID          int    `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Duration    int    `json:"duration" validate:"required,min=1"`
	Capacity    int    `json:"capacity" validate:"required,min=1"`
	Registered  int    `json:"registered"`
	Status      string `json:"status" validate:"required,oneof=Programado En_Curso Finalizado"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// EventRegistration is one sign-up for an event, unique per
// (event_id, num_document).
type EventRegistration struct {
	ID          int    `json:"id"`
	FullName    string `json:"fullName" validate:"required"`
	NumDocument string `json:"numDocument" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	EventID     int    `json:"eventId"`
	EventName   string `json:"eventName,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
