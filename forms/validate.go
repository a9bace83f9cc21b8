package forms

import (
	"fmt"
	"regexp"
	"time"
)

// FieldError points at a single schema field. Campo is empty for errors that
// concern the schema as a whole.
type FieldError struct {
	Campo   string `json:"campo,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Campo == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Campo, e.Message)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const dateLayout = "2006-01-02"

// CheckSchema validates a schema before it is stored on a program: every
// field needs a name and a known type, names are unique across the whole
// schema, choice fields carry options, and conditions reference an existing
// field other than their own.
func CheckSchema(s Schema) []FieldError {
	var errs []FieldError
	seen := map[string]bool{}

	for _, sec := range s.Secciones {
		for _, f := range sec.Campos {
			if f.Nombre == "" {
				errs = append(errs, FieldError{Message: "todos los campos deben tener un nombre"})
				continue
			}
			if seen[f.Nombre] {
				errs = append(errs, FieldError{Campo: f.Nombre, Message: "nombre de campo duplicado"})
			}
			seen[f.Nombre] = true

			if _, ok := Kind(f.Tipo); !ok {
				errs = append(errs, FieldError{Campo: f.Nombre, Message: fmt.Sprintf("tipo de campo desconocido: %q", f.Tipo)})
				continue
			}
			if f.Tipo.NeedsOptions() && len(f.Opciones) == 0 {
				errs = append(errs, FieldError{Campo: f.Nombre, Message: "un campo de tipo " + string(f.Tipo) + " requiere opciones"})
			}
		}
	}

	for _, sec := range s.Secciones {
		for _, f := range sec.Campos {
			for _, c := range f.Condiciones {
				if c.Campo == "" {
					errs = append(errs, FieldError{Campo: f.Nombre, Message: "condición sin campo de referencia"})
					continue
				}
				if c.Campo == f.Nombre {
					errs = append(errs, FieldError{Campo: f.Nombre, Message: "un campo no puede depender de sí mismo"})
					continue
				}
				if _, ok := s.FieldByName(c.Campo); !ok {
					errs = append(errs, FieldError{Campo: f.Nombre, Message: fmt.Sprintf("condición referencia un campo inexistente: %q", c.Campo)})
				}
			}
		}
	}
	return errs
}

// ValidateAnswers runs the server-side authority check for a submission.
// Hidden fields are skipped entirely: a required field whose conditions are
// unmet never blocks the submission, and its answer is not type-checked.
func ValidateAnswers(s Schema, answers Answers) []FieldError {
	var errs []FieldError

	for _, sec := range s.Secciones {
		for _, f := range sec.Campos {
			if !f.Visible(answers) {
				continue
			}
			ans, present := answers[f.Nombre]
			if !present || ans.Empty() {
				if f.Obligatorio {
					errs = append(errs, FieldError{Campo: f.Nombre, Message: "este campo es obligatorio"})
				}
				continue
			}
			if err := checkAnswer(f, ans); err != nil {
				errs = append(errs, *err)
			}
		}
	}
	return errs
}

func checkAnswer(f Field, ans Answer) *FieldError {
	switch f.Tipo {
	case TypeText, TypeTextarea:
		if _, ok := ans.Scalar(); !ok {
			return &FieldError{Campo: f.Nombre, Message: "se esperaba un valor de texto"}
		}
	case TypeNumber:
		if _, ok := ans.Number(); !ok {
			return &FieldError{Campo: f.Nombre, Message: "se esperaba un valor numérico"}
		}
	case TypeEmail:
		s, ok := ans.Scalar()
		if !ok || !emailPattern.MatchString(s) {
			return &FieldError{Campo: f.Nombre, Message: "correo electrónico inválido"}
		}
	case TypeDate:
		s, ok := ans.Scalar()
		if !ok {
			return &FieldError{Campo: f.Nombre, Message: "se esperaba una fecha"}
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return &FieldError{Campo: f.Nombre, Message: "fecha inválida, use el formato AAAA-MM-DD"}
		}
	case TypeRadio, TypeSelect:
		s, ok := ans.Scalar()
		if !ok || !contains(f.Opciones, s) {
			return &FieldError{Campo: f.Nombre, Message: "la respuesta no está entre las opciones"}
		}
	case TypeCheckbox:
		list, ok := ans.List()
		if !ok {
			return &FieldError{Campo: f.Nombre, Message: "se esperaba una lista de opciones"}
		}
		for _, v := range list {
			if !contains(f.Opciones, v) {
				return &FieldError{Campo: f.Nombre, Message: fmt.Sprintf("opción desconocida: %q", v)}
			}
		}
	}
	return nil
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
