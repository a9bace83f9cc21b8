package store

import (
	"context"
	"database/sql"
	"strings"

	"fundacion-api/models"
)

type NewsStore struct {
	db *sql.DB
}

func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

func (s *NewsStore) Create(ctx context.Context, n models.News) (models.News, error) {
	category, err := marshalJSON(n.Category)
	if err != nil {
		return n, err
	}
	images, err := marshalJSON(n.Images)
	if err != nil {
		return n, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO news (title, content, category, important, is_active, images, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Title, n.Content, category, n.Important, n.IsActive, images, n.AuthorID, ts, ts)
	if err != nil {
		return n, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return n, err
	}
	n.ID = int(id)
	n.CreatedAt = ts
	n.UpdatedAt = ts
	return n, nil
}

// List filters and pages news. Ordering is fixed: important first, newest
// first within each group.
func (s *NewsStore) List(ctx context.Context, f models.NewsFilters, page, limit int) ([]models.News, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	where := []string{"1=1"}
	args := []any{}
	if f.IsActive != nil {
		where = append(where, "n.is_active = ?")
		args = append(args, *f.IsActive)
	}
	if f.Important != nil {
		where = append(where, "n.important = ?")
		args = append(args, *f.Important)
	}
	if f.Category != "" {
		// Categories are stored as a JSON string array; match the quoted
		// element inside it.
		where = append(where, "n.category LIKE ?")
		args = append(args, `%"`+f.Category+`"%`)
	}
	if f.Search != "" {
		where = append(where, "(LOWER(n.title) LIKE ? OR LOWER(n.content) LIKE ?)")
		term := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, term, term)
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news n WHERE "+cond, args...).Scan(&total)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	query := `
		SELECT n.id, n.title, n.content, n.category, n.important, n.is_active, n.images, n.author_id, u.name, u.email, n.created_at, n.updated_at
		FROM news n
		JOIN users u ON u.id = n.author_id
		WHERE ` + cond + `
		ORDER BY n.important DESC, n.created_at DESC, n.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	defer rows.Close()

	items := []models.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		items = append(items, n)
	}
	return items, models.NewPagination(page, limit, total), rows.Err()
}

func (s *NewsStore) GetByID(ctx context.Context, id int) (models.News, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT n.id, n.title, n.content, n.category, n.important, n.is_active, n.images, n.author_id, u.name, u.email, n.created_at, n.updated_at
		FROM news n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = ?`, id)
	n, err := scanNews(row)
	if err == sql.ErrNoRows {
		return n, models.ErrNotFound
	}
	return n, err
}

func (s *NewsStore) Update(ctx context.Context, n models.News) (models.News, error) {
	category, err := marshalJSON(n.Category)
	if err != nil {
		return n, err
	}
	images, err := marshalJSON(n.Images)
	if err != nil {
		return n, err
	}

	ts := now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE news SET title = ?, content = ?, category = ?, important = ?, is_active = ?, images = ?, updated_at = ?
		WHERE id = ?`,
		n.Title, n.Content, category, n.Important, n.IsActive, images, ts, n.ID)
	if err != nil {
		return n, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return n, err
	}
	if affected == 0 {
		if _, err := s.GetByID(ctx, n.ID); err != nil {
			return n, err
		}
	}
	n.UpdatedAt = ts
	return n, nil
}

func (s *NewsStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id)
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

func scanNews(row rowScanner) (models.News, error) {
	var n models.News
	var category, images string
	var author models.Author

	err := row.Scan(&n.ID, &n.Title, &n.Content, &category, &n.Important, &n.IsActive,
		&images, &n.AuthorID, &author.Name, &author.Email, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return n, err
	}

	n.Category = unmarshalStringList(category)
	n.Images = unmarshalStringList(images)
	author.ID = n.AuthorID
	n.Author = &author
	return n, nil
}
