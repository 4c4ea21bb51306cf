package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeStore keys rows by (student, subject, day) the way the unique index
// does, so upsert semantics are observable in tests.
type fakeStore struct {
	rows map[[3]string]Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[[3]string]Record)}
}

func key(r Record) [3]string {
	return [3]string{r.Student, r.Subject, r.MarkedOn.Format("2006-01-02")}
}

func (f *fakeStore) Upsert(_ context.Context, rec Record) (Record, error) {
	k := key(rec)
	if existing, ok := f.rows[k]; ok {
		existing.Status = rec.Status
		f.rows[k] = existing
		return existing, nil
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now()
	f.rows[k] = rec
	return rec, nil
}

func (f *fakeStore) ListByStudent(_ context.Context, student string) ([]Record, error) {
	var res []Record
	for _, r := range f.rows {
		if r.Student == student {
			res = append(res, r)
		}
	}
	return res, nil
}

func (f *fakeStore) ListByStudentSubject(_ context.Context, student, subject string) ([]Record, error) {
	var res []Record
	for _, r := range f.rows {
		if r.Student == student && r.Subject == subject {
			res = append(res, r)
		}
	}
	return res, nil
}

func (f *fakeStore) ListOnDate(_ context.Context, subject string, day time.Time) ([]Record, error) {
	var res []Record
	for _, r := range f.rows {
		if r.Subject == subject && r.MarkedOn.Equal(day) {
			res = append(res, r)
		}
	}
	return res, nil
}

type spyInvalidator struct {
	calls int
	err   error
}

func (s *spyInvalidator) Invalidate(context.Context) error {
	s.calls++
	return s.err
}

type spyNotifier struct {
	notices []string
	err     error
}

func (s *spyNotifier) NotifyAbsence(_ context.Context, student, subject string, _ time.Time) error {
	s.notices = append(s.notices, student+"/"+subject)
	return s.err
}

func TestMarkValidation(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		student string
		subject string
		status  Status
	}{
		{name: "missing student", subject: "Python", status: Present},
		{name: "missing subject", student: "alice", status: Present},
		{name: "unknown status", student: "alice", subject: "Python", status: "Late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Mark(ctx, tt.student, tt.subject, tt.status)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMarkIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	first, err := svc.Mark(ctx, "alice", "Python", Present)
	assert.NoError(t, err)
	second, err := svc.Mark(ctx, "alice", "Python", Present)
	assert.NoError(t, err)

	assert.Len(t, store.rows, 1, "same key twice must keep one row")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, Present, second.Status)
}

func TestMarkUpsertsLastWriteWins(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Mark(ctx, "alice", "Python", Present)
	assert.NoError(t, err)
	rec, err := svc.Mark(ctx, "alice", "Python", Absent)
	assert.NoError(t, err)

	assert.Len(t, store.rows, 1, "re-marking must update in place, not insert")
	assert.Equal(t, Absent, rec.Status)
}

func TestMarkInvalidatesCache(t *testing.T) {
	inv := &spyInvalidator{}
	svc := NewService(newFakeStore(), inv, nil)

	_, err := svc.Mark(context.Background(), "alice", "Python", Present)
	assert.NoError(t, err)
	assert.Equal(t, 1, inv.calls)
}

func TestMarkAbsenceNotification(t *testing.T) {
	notifier := &spyNotifier{}
	svc := NewService(newFakeStore(), nil, notifier)
	ctx := context.Background()

	_, err := svc.Mark(ctx, "alice", "Python", Present)
	assert.NoError(t, err)
	assert.Empty(t, notifier.notices, "present marks send nothing")

	_, err = svc.Mark(ctx, "bob", "Python", Absent)
	assert.NoError(t, err)
	assert.Equal(t, []string{"bob/Python"}, notifier.notices)
}

func TestMarkSwallowsSideEffectFailures(t *testing.T) {
	inv := &spyInvalidator{err: errors.New("redis down")}
	notifier := &spyNotifier{err: errors.New("queue down")}
	store := newFakeStore()
	svc := NewService(store, inv, notifier)

	rec, err := svc.Mark(context.Background(), "alice", "Python", Absent)
	assert.NoError(t, err, "cache and notification failures must not fail the mark")
	assert.Equal(t, Absent, rec.Status)
	assert.Len(t, store.rows, 1)
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2026, 3, 5, 23, 45, 0, 0, loc) // 18:15 UTC the same day
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Day(in))
}
