package store

import (
	"context"

	"github.com/google/uuid"
)

// defaultSubjects is the fixed reference list seeded once at startup.
var defaultSubjects = []string{"Python", "Java", "MIC", "ES", "DCN"}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		year          TEXT NOT NULL DEFAULT '',
		division      TEXT NOT NULL DEFAULT '',
		subject_id    TEXT REFERENCES subjects(id),
		phone         TEXT NOT NULL DEFAULT '',
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id         TEXT PRIMARY KEY,
		student    TEXT NOT NULL,
		subject    TEXT NOT NULL,
		status     TEXT NOT NULL,
		marked_on  DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// The unique index is what makes the mark upsert atomic; concurrent
	// submissions for the same key resolve to last-write-wins.
	`CREATE UNIQUE INDEX IF NOT EXISTS attendance_student_subject_day
		ON attendance (student, subject, marked_on)`,
	`CREATE INDEX IF NOT EXISTS attendance_by_student ON attendance (student, marked_on DESC)`,
}

// EnsureSchema creates the tables and seeds the subject reference list.
// Safe to run on every startup.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, name := range defaultSubjects {
		_, err := d.Client.ExecContext(ctx, `
			INSERT INTO subjects (id, name)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, uuid.NewString(), name)
		if err != nil {
			return err
		}
	}
	return nil
}
