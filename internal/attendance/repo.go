package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status of one attendance mark.
type Status string

const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == Present || s == Absent
}

// Record is one attendance event. (Student, Subject, MarkedOn) is the natural
// key; re-marking the same key overwrites Status in place.
type Record struct {
	ID        string    `json:"id"`
	Student   string    `json:"student"`
	Subject   string    `json:"subject"`
	Status    Status    `json:"status"`
	MarkedOn  time.Time `json:"marked_on"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists attendance rows in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes a mark for the record's natural key. The unique index on
// (student, subject, marked_on) makes concurrent submissions resolve to a
// single row, last write wins.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.MarkedOn.IsZero() {
		rec.MarkedOn = time.Now().UTC()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student, subject, status, marked_on)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (student, subject, marked_on)
		DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at
	`, rec.ID, rec.Student, rec.Subject, rec.Status, rec.MarkedOn)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

const recordColumns = `id, student, subject, status, marked_on, created_at`

func (r *Repository) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Student, &rec.Subject, &rec.Status, &rec.MarkedOn, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// ListByStudent returns all of a student's records, most recent date first.
// Rows sharing a date keep insertion order, which fixes the streak walk.
func (r *Repository) ListByStudent(ctx context.Context, student string) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordColumns+` FROM attendance
		WHERE student = $1
		ORDER BY marked_on DESC, created_at
	`, student)
}

// ListByStudentSubject returns one student's records for one subject, most
// recent date first.
func (r *Repository) ListByStudentSubject(ctx context.Context, student, subject string) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordColumns+` FROM attendance
		WHERE student = $1 AND subject = $2
		ORDER BY marked_on DESC, created_at
	`, student, subject)
}

// ListOnDate returns all records of one subject on one day.
func (r *Repository) ListOnDate(ctx context.Context, subject string, day time.Time) ([]Record, error) {
	return r.queryRecords(ctx, `
		SELECT `+recordColumns+` FROM attendance
		WHERE subject = $1 AND marked_on = $2
		ORDER BY student
	`, subject, day)
}
