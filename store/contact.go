package store

import (
	"context"
	"database/sql"

	"fundacion-api/models"
)

type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?)",
		m.Name, m.Email, m.Subject, m.Message, ts)
	if err != nil {
		return m, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return m, err
	}
	m.ID = int(id)
	m.CreatedAt = ts
	return m, nil
}
