package attendance

import (
	"context"
	"errors"
	"log"
	"time"
)

var (
	// ErrValidation flags a missing student, subject, or unknown status.
	ErrValidation = errors.New("invalid mark")
)

// Store is the persistence surface the service needs. *Repository satisfies
// it; tests plug in an in-memory fake.
type Store interface {
	Upsert(ctx context.Context, rec Record) (Record, error)
	ListByStudent(ctx context.Context, student string) ([]Record, error)
	ListByStudentSubject(ctx context.Context, student, subject string) ([]Record, error)
	ListOnDate(ctx context.Context, subject string, day time.Time) ([]Record, error)
}

// Invalidator is notified after every successful write so cached reports
// never serve stale figures.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// AbsenceNotifier is the best-effort outbound hook for Absent marks. Failures
// must never surface to the caller.
type AbsenceNotifier interface {
	NotifyAbsence(ctx context.Context, student, subject string, day time.Time) error
}

// Service coordinates attendance marking.
type Service struct {
	store    Store
	cache    Invalidator
	notifier AbsenceNotifier
}

// NewService creates a service. cache and notifier may be nil.
func NewService(store Store, cache Invalidator, notifier AbsenceNotifier) *Service {
	return &Service{store: store, cache: cache, notifier: notifier}
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Mark upserts today's status for (student, subject). Submitting the same key
// again overwrites the status in place; the row count never grows past one
// per key per day.
func (s *Service) Mark(ctx context.Context, student, subjectName string, status Status) (Record, error) {
	if student == "" || subjectName == "" || !status.Valid() {
		return Record{}, ErrValidation
	}
	rec, err := s.store.Upsert(ctx, Record{
		Student:  student,
		Subject:  subjectName,
		Status:   status,
		MarkedOn: Day(time.Now()),
	})
	if err != nil {
		return Record{}, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("report cache invalidation failed: %v", err)
		}
	}
	// Absence notices are best-effort: a dead queue must not fail the mark.
	if status == Absent && s.notifier != nil {
		if err := s.notifier.NotifyAbsence(ctx, student, subjectName, rec.MarkedOn); err != nil {
			log.Printf("absence notice for %s/%s failed: %v", student, subjectName, err)
		}
	}
	return rec, nil
}

// StudentRecords returns all records of one student, most recent date first.
func (s *Service) StudentRecords(ctx context.Context, student string) ([]Record, error) {
	return s.store.ListByStudent(ctx, student)
}

// SubjectRecords returns one student's records for one subject, most recent
// date first.
func (s *Service) SubjectRecords(ctx context.Context, student, subject string) ([]Record, error) {
	return s.store.ListByStudentSubject(ctx, student, subject)
}

// TodayRecords returns all of today's marks for a subject.
func (s *Service) TodayRecords(ctx context.Context, subject string) ([]Record, error) {
	return s.store.ListOnDate(ctx, subject, Day(time.Now()))
}
