package forms

import "errors"

var (
	ErrNoSuchSection   = errors.New("section index out of range")
	ErrNoSuchField     = errors.New("field index out of range")
	ErrNoSuchOption    = errors.New("option index out of range")
	ErrNoSuchCondition = errors.New("condition index out of range")
	ErrSelfCondition   = errors.New("a field cannot depend on itself")
)

// Builder accumulates structural edits to a schema in memory. Nothing is
// persisted until the caller snapshots it with Schema() and saves the result
// on the program; edits never touch existing registrations.
type Builder struct {
	schema Schema
}

func NewBuilder() *Builder {
	return &Builder{}
}

// BuilderFrom starts from an existing schema, copying it so edits do not
// alias the caller's value.
func BuilderFrom(s Schema) *Builder {
	return &Builder{schema: copySchema(s)}
}

func (b *Builder) AddSection(titulo string) {
	b.schema.Secciones = append(b.schema.Secciones, Section{Titulo: titulo})
}

func (b *Builder) RemoveSection(i int) error {
	if i < 0 || i >= len(b.schema.Secciones) {
		return ErrNoSuchSection
	}
	b.schema.Secciones = append(b.schema.Secciones[:i], b.schema.Secciones[i+1:]...)
	return nil
}

func (b *Builder) AddField(section int, f Field) error {
	if section < 0 || section >= len(b.schema.Secciones) {
		return ErrNoSuchSection
	}
	b.schema.Secciones[section].Campos = append(b.schema.Secciones[section].Campos, f)
	return nil
}

func (b *Builder) RemoveField(section, field int) error {
	sec, err := b.section(section)
	if err != nil {
		return err
	}
	if field < 0 || field >= len(sec.Campos) {
		return ErrNoSuchField
	}
	sec.Campos = append(sec.Campos[:field], sec.Campos[field+1:]...)
	b.schema.Secciones[section].Campos = sec.Campos
	return nil
}

func (b *Builder) AddOption(section, field int, opt string) error {
	f, err := b.field(section, field)
	if err != nil {
		return err
	}
	f.Opciones = append(f.Opciones, opt)
	return nil
}

func (b *Builder) RemoveOption(section, field, opt int) error {
	f, err := b.field(section, field)
	if err != nil {
		return err
	}
	if opt < 0 || opt >= len(f.Opciones) {
		return ErrNoSuchOption
	}
	f.Opciones = append(f.Opciones[:opt], f.Opciones[opt+1:]...)
	return nil
}

// AddCondition attaches a visibility condition to a field. Self-references
// are refused here so the dashboard cannot author a field that can never
// show itself; cross-field existence is checked later by CheckSchema.
func (b *Builder) AddCondition(section, field int, c Condition) error {
	f, err := b.field(section, field)
	if err != nil {
		return err
	}
	if c.Campo == f.Nombre {
		return ErrSelfCondition
	}
	f.Condiciones = append(f.Condiciones, c)
	return nil
}

func (b *Builder) RemoveCondition(section, field, cond int) error {
	f, err := b.field(section, field)
	if err != nil {
		return err
	}
	if cond < 0 || cond >= len(f.Condiciones) {
		return ErrNoSuchCondition
	}
	f.Condiciones = append(f.Condiciones[:cond], f.Condiciones[cond+1:]...)
	return nil
}

// Schema returns a snapshot of the current state, detached from the builder.
func (b *Builder) Schema() Schema {
	return copySchema(b.schema)
}

func (b *Builder) section(i int) (*Section, error) {
	if i < 0 || i >= len(b.schema.Secciones) {
		return nil, ErrNoSuchSection
	}
	return &b.schema.Secciones[i], nil
}

func (b *Builder) field(section, field int) (*Field, error) {
	sec, err := b.section(section)
	if err != nil {
		return nil, err
	}
	if field < 0 || field >= len(sec.Campos) {
		return nil, ErrNoSuchField
	}
	return &sec.Campos[field], nil
}

func copySchema(s Schema) Schema {
	out := Schema{Secciones: make([]Section, len(s.Secciones))}
	for i, sec := range s.Secciones {
		cp := Section{Titulo: sec.Titulo, Campos: make([]Field, len(sec.Campos))}
		for j, f := range sec.Campos {
			fc := f
			fc.Opciones = append([]string(nil), f.Opciones...)
			fc.Condiciones = append([]Condition(nil), f.Condiciones...)
			cp.Campos[j] = fc
		}
		out.Secciones[i] = cp
	}
	return out
}
