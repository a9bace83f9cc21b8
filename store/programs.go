package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fundacion-api/models"
)

type ProgramStore struct {
	db *sql.DB
}

func NewProgramStore(db *sql.DB) *ProgramStore {
	return &ProgramStore{db: db}
}

func (s *ProgramStore) Create(ctx context.Context, p models.Program) (models.Program, error) {
	requirements, err := marshalJSON(p.Requirements)
	if err != nil {
		return p, err
	}
	benefits, err := marshalJSON(p.Benefits)
	if err != nil {
		return p, err
	}
	schema, err := json.Marshal(p.SpecificInformation)
	if err != nil {
		return p, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO programs (name, description, long_description, requirements, benefits, specific_information, min_age, max_age, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.LongDescription, requirements, benefits, string(schema), p.MinAge, p.MaxAge, ts, ts)
	if err != nil {
		return p, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return p, err
	}
	p.ID = int(id)
	p.CreatedAt = ts
	p.UpdatedAt = ts
	return p, nil
}

func (s *ProgramStore) GetAll(ctx context.Context) ([]models.Program, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, long_description, requirements, benefits, specific_information, min_age, max_age, created_at, updated_at
		FROM programs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := []models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

func (s *ProgramStore) GetByID(ctx context.Context, id int) (models.Program, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, long_description, requirements, benefits, specific_information, min_age, max_age, created_at, updated_at
		FROM programs WHERE id = ?`, id)
	p, err := scanProgram(row)
	if err == sql.ErrNoRows {
		return p, models.ErrNotFound
	}
	return p, err
}

func (s *ProgramStore) Update(ctx context.Context, p models.Program) (models.Program, error) {
	requirements, err := marshalJSON(p.Requirements)
	if err != nil {
		return p, err
	}
	benefits, err := marshalJSON(p.Benefits)
	if err != nil {
		return p, err
	}
	schema, err := json.Marshal(p.SpecificInformation)
	if err != nil {
		return p, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE programs
		SET name = ?, description = ?, long_description = ?, requirements = ?, benefits = ?, specific_information = ?, min_age = ?, max_age = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Description, p.LongDescription, requirements, benefits, string(schema), p.MinAge, p.MaxAge, ts, p.ID)
	if err != nil {
		return p, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return p, err
	}
	if affected == 0 {
		// Either missing or unchanged; distinguish with a lookup.
		if _, err := s.GetByID(ctx, p.ID); err != nil {
			return p, err
		}
	}
	p.UpdatedAt = ts
	return p, nil
}

// Delete removes a program. A program with registrations cannot be deleted:
// submissions are signed documents and must outlive neither silently (the
// foreign key is ON DELETE RESTRICT as a second line of defense).
func (s *ProgramStore) Delete(ctx context.Context, id int) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE program_id = ?", id).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ErrHasRegistrations
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM programs WHERE id = ?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ErrHasRegistrations
		}
		return fmt.Errorf("delete program: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgram(row rowScanner) (models.Program, error) {
	var p models.Program
	var requirements, benefits, schema string
	var minAge, maxAge sql.NullInt64

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.LongDescription,
		&requirements, &benefits, &schema, &minAge, &maxAge, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	p.Requirements = unmarshalStringList(requirements)
	p.Benefits = unmarshalStringList(benefits)
	if schema != "" {
		if err := json.Unmarshal([]byte(schema), &p.SpecificInformation); err != nil {
			return p, fmt.Errorf("program %d: bad specific_information: %w", p.ID, err)
		}
	}
	if minAge.Valid {
		v := int(minAge.Int64)
		p.MinAge = &v
	}
	if maxAge.Valid {
		v := int(maxAge.Int64)
		p.MaxAge = &v
	}
	return p, nil
}
