package store

import (
	"context"
	"database/sql"
	"time"

	"fundacion-api/models"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, e models.Event) (models.Event, error) {
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (name, description, date, location, duration, capacity, registered, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		e.Name, e.Description, e.Date, e.Location, e.Duration, e.Capacity, e.Status, ts, ts)
	if err != nil {
		return e, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return e, err
	}
	e.ID = int(id)
	e.Registered = 0
	e.CreatedAt = ts
	e.UpdatedAt = ts
	return e, nil
}

func (s *EventStore) GetAll(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, date, location, duration, capacity, registered, status, created_at, updated_at
		FROM events ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Location, &e.Duration,
			&e.Capacity, &e.Registered, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *EventStore) GetByID(ctx context.Context, id int) (models.Event, error) {
	var e models.Event
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, date, location, duration, capacity, registered, status, created_at, updated_at
		FROM events WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Location, &e.Duration,
			&e.Capacity, &e.Registered, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return e, models.ErrNotFound
	}
	return e, err
}

// Update never touches the registered counter; only Register moves it.
func (s *EventStore) Update(ctx context.Context, e models.Event) (models.Event, error) {
	ts := now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET name = ?, description = ?, date = ?, location = ?, duration = ?, capacity = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, e.Description, e.Date, e.Location, e.Duration, e.Capacity, e.Status, ts, e.ID)
	if err != nil {
		return e, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return e, err
	}
	if affected == 0 {
		if _, err := s.GetByID(ctx, e.ID); err != nil {
			return e, err
		}
	}
	e.UpdatedAt = ts
	return e, nil
}

func (s *EventStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
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

// Register creates an event sign-up and bumps the registered counter as one
// transaction. Capacity is enforced by the conditional update: zero rows
// affected means the event is full, and the whole transaction rolls back so
// the counter and the rows can never drift apart.
func (s *EventStore) Register(ctx context.Context, reg models.EventRegistration) (models.EventRegistration, error) {
	event, err := s.GetByID(ctx, reg.EventID)
	if err != nil {
		return reg, err
	}
	if closed(event) {
		return reg, models.ErrEventClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return reg, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE events SET registered = registered + 1 WHERE id = ? AND registered < capacity",
		reg.EventID)
	if err != nil {
		return reg, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return reg, err
	}
	if affected == 0 {
		return reg, models.ErrCapacityFull
	}

	ts := now()
	ins, err := tx.ExecContext(ctx, `
		INSERT INTO event_registrations (full_name, num_document, email, phone, event_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		reg.FullName, reg.NumDocument, reg.Email, reg.Phone, reg.EventID, ts)
	if err != nil {
		if isDuplicate(err) {
			return reg, models.ErrDuplicate
		}
		return reg, err
	}

	if err := tx.Commit(); err != nil {
		return reg, err
	}

	id, err := ins.LastInsertId()
	if err != nil {
		return reg, err
	}
	reg.ID = int(id)
	reg.EventName = event.Name
	reg.CreatedAt = ts
	return reg, nil
}

func (s *EventStore) ListRegistrations(ctx context.Context, eventID int) ([]models.EventRegistration, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.full_name, r.num_document, r.email, r.phone, r.event_id, e.name, r.created_at
		FROM event_registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.event_id = ?
		ORDER BY r.created_at ASC, r.id ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []models.EventRegistration{}
	for rows.Next() {
		var r models.EventRegistration
		if err := rows.Scan(&r.ID, &r.FullName, &r.NumDocument, &r.Email, &r.Phone,
			&r.EventID, &r.EventName, &r.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

// closed reports whether an event no longer accepts sign-ups: finalized, or
// its date is in the past. Dates are stored as strings; an unparseable date
// keeps the event open rather than silently closing it.
func closed(e models.Event) bool {
	if e.Status == models.EventFinished {
		return true
	}
	for _, layout := range []string{timeLayout, "2006-01-02"} {
		if date, err := time.Parse(layout, e.Date); err == nil {
			return date.Before(time.Now())
		}
	}
	return false
}
