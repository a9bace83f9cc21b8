package store

import (
	"context"
	"database/sql"

	"fundacion-api/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new admin account. The password must already be hashed.
func (s *UserStore) Create(ctx context.Context, user models.User) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password, created_at) VALUES (?, ?, ?, ?)",
		user.Name, user.Email, user.Password, now())
	if err != nil {
		if isDuplicate(err) {
			return 0, models.ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// GetByEmail returns ErrNotFound for unknown emails; the login handler folds
// that into the same "invalid credentials" answer as a bad password.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Password)
	if err == sql.ErrNoRows {
		return user, models.ErrNotFound
	}
	return user, err
}

func (s *UserStore) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Name, &user.Email)
	if err == sql.ErrNoRows {
		return user, models.ErrNotFound
	}
	return user, err
}
