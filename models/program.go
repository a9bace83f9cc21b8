package models

import "fundacion-api/forms"

// Program is a social program offered by the foundation. Its registration
// questionnaire lives in SpecificInformation and is interpreted by the forms
// package. MinAge/MaxAge gate who may register; nil means no bound.
type Program struct {
	ID                  int          `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	LongDescription     string       `json:"longDescription"`
	Requirements        []string     `json:"requirements"`
	Benefits            []string     `json:"benefits"`
	SpecificInformation forms.Schema `json:"specificInformation"`
	MinAge              *int         `json:"minAge,omitempty"`
	MaxAge              *int         `json:"maxAge,omitempty"`
	CreatedAt           string       `json:"createdAt,omitempty"`
	UpdatedAt           string       `json:"updatedAt,omitempty"`
}
