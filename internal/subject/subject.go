package subject

import (
	"context"
	"database/sql"
	"errors"
)

// Subject is one entry of the fixed reference list seeded at startup.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Repository reads the subject reference table.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all subjects ordered by name.
func (r *Repository) List(ctx context.Context) ([]Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Get returns one subject by id, or nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*Subject, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM subjects WHERE id = $1`, id)
	var s Subject
	if err := row.Scan(&s.ID, &s.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
