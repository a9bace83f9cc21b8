package models

import "fundacion-api/forms"

// Registration is one person signed up for a program: the fixed personal
// columns plus the free-form answers to the program's specific questionnaire.
// (program_id, num_document) is unique; the database constraint is the
// authority for duplicates.
type Registration struct {
	ID                  int          `json:"id"`
	TypeDocument        string       `json:"typeDocument" validate:"required,oneof=CC TI CE Pasaporte"`
	NumDocument         string       `json:"numDocument" validate:"required"`
	FullName            string       `json:"fullName" validate:"required"`
	Gender              string       `json:"gender" validate:"omitempty,oneof=MASCULINO FEMENINO OTRO"`
	BirthDate           string       `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Comune              string       `json:"comune"`
	SocialStratum       string       `json:"socialStratum" validate:"omitempty,oneof=E1 E2 E3 E4 E5 E6"`
	Age                 int          `json:"age" validate:"required,min=1,max=120"`
	EtnicalGroup        string       `json:"etnicalGroup"`
	Address             string       `json:"address"`
	Phone               string       `json:"phone"`
	Email               string       `json:"email" validate:"omitempty,email"`
	Motivation          string       `json:"motivation"`
	Expectations        string       `json:"expectations"`
	AcceptTerms         bool         `json:"acceptTerms"`
	SpecificInformation forms.Answers `json:"specificInformation"`
	ProgramID           int          `json:"programId"`
	ProgramName         string       `json:"programName,omitempty"`
	CreatedAt           string       `json:"createdAt,omitempty"`
	UpdatedAt           string       `json:"updatedAt,omitempty"`
}
