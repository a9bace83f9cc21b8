package forms

// Package forms holds the dynamic registration form model: the schema an
// admin builds in the dashboard and the interpreter the public registration
// endpoint runs against submitted answers.

// FieldType is the closed set of input types a schema field can declare.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeEmail    FieldType = "email"
	TypeDate     FieldType = "date"
	TypeRadio    FieldType = "radio"
	TypeSelect   FieldType = "select"
	TypeTextarea FieldType = "textarea"
	TypeCheckbox FieldType = "checkbox"
)

// InputKind groups field types by the control that renders them and the
// answer shape they accept.
type InputKind int

const (
	KindSingleLine InputKind = iota // text, number, email, date
	KindMultiLine                   // textarea
	KindChoiceOne                   // radio, select
	KindChoiceMany                  // checkbox
)

// Kind maps a field type to its input kind. Unknown types return ok=false so
// callers reject schemas instead of guessing.
func Kind(t FieldType) (InputKind, bool) {
	switch t {
	case TypeText, TypeNumber, TypeEmail, TypeDate:
		return KindSingleLine, true
	case TypeTextarea:
		return KindMultiLine, true
	case TypeRadio, TypeSelect:
		return KindChoiceOne, true
	case TypeCheckbox:
		return KindChoiceMany, true
	}
	return 0, false
}

// NeedsOptions reports whether the type requires a non-empty opciones list.
func (t FieldType) NeedsOptions() bool {
	k, ok := Kind(t)
	return ok && (k == KindChoiceOne || k == KindChoiceMany)
}

// Condition gates a field's visibility on another field's current answer.
type Condition struct {
	Campo string `json:"campo"`
	Valor string `json:"valor"`
}

type Field struct {
	Nombre      string      `json:"nombre"`
	Tipo        FieldType   `json:"tipo"`
	Etiqueta    string      `json:"etiqueta"`
	Obligatorio bool        `json:"obligatorio"`
	Opciones    []string    `json:"opciones,omitempty"`
	Condiciones []Condition `json:"condiciones,omitempty"`
}

type Section struct {
	Titulo string  `json:"titulo"`
	Campos []Field `json:"campos"`
}

// Schema is the form definition stored on a program's specificInformation
// column, serialized as JSON.
type Schema struct {
	Secciones []Section `json:"secciones"`
}

// Visible reports whether the field should be rendered and validated given
// the current answers. Every condition must hold (AND); a field with no
// conditions is always visible. Conditions only match scalar answers.
func (f Field) Visible(answers Answers) bool {
	for _, c := range f.Condiciones {
		ans, ok := answers[c.Campo]
		if !ok {
			return false
		}
		s, scalar := ans.Scalar()
		if !scalar || s != c.Valor {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the schema carries no fields at all. Programs
// without specific questions store an empty schema.
func (s Schema) IsEmpty() bool {
	for _, sec := range s.Secciones {
		if len(sec.Campos) > 0 {
			return false
		}
	}
	return true
}

// FieldByName finds a field anywhere in the schema.
func (s Schema) FieldByName(nombre string) (Field, bool) {
	for _, sec := range s.Secciones {
		for _, f := range sec.Campos {
			if f.Nombre == nombre {
				return f, true
			}
		}
	}
	return Field{}, false
}
