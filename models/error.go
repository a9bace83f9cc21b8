package models

import (
	"errors"
	"fmt"
)

// Error is the JSON error body: {"success":false,"error":...,"details":[...]}.
type Error struct {
	Message string `json:"error"`
	Details []any  `json:"details,omitempty"`
}

// Sentinel errors the stores return; controllers map them to HTTP statuses
// at the request boundary.
var (
	ErrNotFound     = errors.New("registro no encontrado")
	ErrDuplicate    = errors.New("ya se encuentra registrado")
	ErrEventClosed  = errors.New("este evento ya finalizó, no se permiten más inscripciones")
	ErrCapacityFull = errors.New("el evento ya alcanzó su capacidad máxima")
	ErrForbidden    = errors.New("no tienes permisos para esta operación")
	ErrHasRegistrations = errors.New("el programa tiene inscripciones asociadas y no puede eliminarse")
)

// ValidationError carries field-level details for 400 responses.
type ValidationError struct {
	Message string
	Details []any
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message string, details ...any) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// EligibilityError signals that the submitted age falls outside the
// program's min/max bounds.
type EligibilityError struct {
	MinAge *int
	MaxAge *int
	Age    int
}

func (e *EligibilityError) Error() string {
	if e.MinAge != nil && e.Age < *e.MinAge {
		return fmt.Sprintf("debes tener al menos %d años para inscribirte en este programa", *e.MinAge)
	}
	if e.MaxAge != nil && e.Age > *e.MaxAge {
		return fmt.Sprintf("la edad máxima para este programa es %d años", *e.MaxAge)
	}
	return "no cumples el requisito de edad de este programa"
}
