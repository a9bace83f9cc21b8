package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"fundacion-api/forms"
	"fundacion-api/models"
)

type RegistrationStore struct {
	db       *sql.DB
	programs *ProgramStore
}

func NewRegistrationStore(db *sql.DB) *RegistrationStore {
	return &RegistrationStore{db: db, programs: NewProgramStore(db)}
}

// Register runs the full submission contract: terms accepted, document
// present, program exists, age within the program's bounds, answers valid
// against the program's current schema, and no prior registration for the
// same (program, document). The duplicate pre-check is advisory; the unique
// index decides under concurrency. Answers are stored verbatim and never
// re-validated against later schema edits.
func (s *RegistrationStore) Register(ctx context.Context, reg models.Registration) (models.Registration, error) {
	if reg.ProgramID <= 0 {
		return reg, models.NewValidationError("programId es requerido")
	}
	if strings.TrimSpace(reg.NumDocument) == "" {
		return reg, models.NewValidationError("número de documento requerido")
	}
	if !reg.AcceptTerms {
		return reg, models.NewValidationError("debes aceptar los términos y condiciones")
	}

	program, err := s.programs.GetByID(ctx, reg.ProgramID)
	if err != nil {
		return reg, err
	}

	if program.MinAge != nil && reg.Age < *program.MinAge ||
		program.MaxAge != nil && reg.Age > *program.MaxAge {
		return reg, &models.EligibilityError{MinAge: program.MinAge, MaxAge: program.MaxAge, Age: reg.Age}
	}

	if fieldErrs := forms.ValidateAnswers(program.SpecificInformation, reg.SpecificInformation); len(fieldErrs) > 0 {
		details := make([]any, len(fieldErrs))
		for i, fe := range fieldErrs {
			details[i] = fe
		}
		return reg, models.NewValidationError("el formulario tiene respuestas inválidas", details...)
	}

	// Advisory pre-check for a friendlier error; the insert below is the
	// authority.
	var existing int
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE program_id = ? AND num_document = ?",
		reg.ProgramID, reg.NumDocument).Scan(&existing)
	if err != nil {
		return reg, err
	}
	if existing > 0 {
		return reg, models.ErrDuplicate
	}

	answers, err := marshalAnswers(reg.SpecificInformation)
	if err != nil {
		return reg, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO registrations (type_document, num_document, full_name, gender, birth_date, comune, social_stratum, age, etnical_group, address, phone, email, motivation, expectations, accept_terms, specific_information, program_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reg.TypeDocument, reg.NumDocument, reg.FullName, reg.Gender, reg.BirthDate, reg.Comune,
		reg.SocialStratum, reg.Age, reg.EtnicalGroup, reg.Address, reg.Phone, reg.Email,
		reg.Motivation, reg.Expectations, reg.AcceptTerms, answers, reg.ProgramID, ts, ts)
	if err != nil {
		if isDuplicate(err) {
			return reg, models.ErrDuplicate
		}
		return reg, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return reg, err
	}
	reg.ID = int(id)
	reg.ProgramName = program.Name
	reg.CreatedAt = ts
	reg.UpdatedAt = ts
	return reg, nil
}

// ListByProgram pages through a program's registrations, optionally
// filtering by a case-insensitive full-name search.
func (s *RegistrationStore) ListByProgram(ctx context.Context, programID int, search string, page, limit int) ([]models.Registration, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	if _, err := s.programs.GetByID(ctx, programID); err != nil {
		return nil, models.Pagination{}, err
	}

	where := "WHERE r.program_id = ?"
	args := []any{programID}
	if search != "" {
		where += " AND LOWER(r.full_name) LIKE ?"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations r "+where, args...).Scan(&total)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.type_document, r.num_document, r.full_name, r.gender, r.birth_date, r.comune, r.social_stratum, r.age, r.etnical_group, r.address, r.phone, r.email, r.motivation, r.expectations, r.accept_terms, r.specific_information, r.program_id, p.name, r.created_at, r.updated_at
		FROM registrations r
		JOIN programs p ON p.id = r.program_id
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ? OFFSET ?`, where)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	defer rows.Close()

	regs := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		regs = append(regs, reg)
	}
	return regs, models.NewPagination(page, limit, total), rows.Err()
}

func (s *RegistrationStore) GetByID(ctx context.Context, id int) (models.Registration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.type_document, r.num_document, r.full_name, r.gender, r.birth_date, r.comune, r.social_stratum, r.age, r.etnical_group, r.address, r.phone, r.email, r.motivation, r.expectations, r.accept_terms, r.specific_information, r.program_id, p.name, r.created_at, r.updated_at
		FROM registrations r
		JOIN programs p ON p.id = r.program_id
		WHERE r.id = ?`, id)
	reg, err := scanRegistration(row)
	if err == sql.ErrNoRows {
		return reg, models.ErrNotFound
	}
	return reg, err
}

// Update rewrites the personal columns and the stored answer map verbatim.
// The program binding and document number are immutable here.
func (s *RegistrationStore) Update(ctx context.Context, reg models.Registration) (models.Registration, error) {
	answers, err := marshalAnswers(reg.SpecificInformation)
	if err != nil {
		return reg, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE registrations
		SET type_document = ?, full_name = ?, gender = ?, birth_date = ?, comune = ?, social_stratum = ?, age = ?, etnical_group = ?, address = ?, phone = ?, email = ?, motivation = ?, expectations = ?, specific_information = ?, updated_at = ?
		WHERE id = ?`,
		reg.TypeDocument, reg.FullName, reg.Gender, reg.BirthDate, reg.Comune, reg.SocialStratum,
		reg.Age, reg.EtnicalGroup, reg.Address, reg.Phone, reg.Email, reg.Motivation,
		reg.Expectations, answers, ts, reg.ID)
	if err != nil {
		return reg, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return reg, err
	}
	if affected == 0 {
		if _, err := s.GetByID(ctx, reg.ID); err != nil {
			return reg, err
		}
	}
	reg.UpdatedAt = ts
	return reg, nil
}

func (s *RegistrationStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM registrations WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func marshalAnswers(answers forms.Answers) (string, error) {
	if answers == nil {
		return "{}", nil
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanRegistration(row rowScanner) (models.Registration, error) {
	var reg models.Registration
	var answers string

	err := row.Scan(&reg.ID, &reg.TypeDocument, &reg.NumDocument, &reg.FullName, &reg.Gender,
		&reg.BirthDate, &reg.Comune, &reg.SocialStratum, &reg.Age, &reg.EtnicalGroup,
		&reg.Address, &reg.Phone, &reg.Email, &reg.Motivation, &reg.Expectations,
		&reg.AcceptTerms, &answers, &reg.ProgramID, &reg.ProgramName, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return reg, err
	}

	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &reg.SpecificInformation); err != nil {
			return reg, fmt.Errorf("registration %d: bad specific_information: %w", reg.ID, err)
		}
	}
	return reg, nil
}
