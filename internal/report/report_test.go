package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"classtrack/internal/attendance"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(student, subject string, status attendance.Status, date string) attendance.Record {
	return attendance.Record{Student: student, Subject: subject, Status: status, MarkedOn: day(date)}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		records []attendance.Record
		want    Summary
	}{
		{
			name: "no records",
			want: Summary{},
		},
		{
			name: "all present",
			records: []attendance.Record{
				rec("a", "Python", attendance.Present, "2026-03-02"),
				rec("a", "Python", attendance.Present, "2026-03-03"),
			},
			want: Summary{Present: 2, Percentage: 100, Streak: 2},
		},
		{
			name: "streak stops at first absence walking back from most recent",
			records: []attendance.Record{
				rec("a", "Python", attendance.Present, "2026-03-02"), // Mon
				rec("a", "Python", attendance.Present, "2026-03-03"), // Tue
				rec("a", "Python", attendance.Absent, "2026-03-04"),  // Wed
				rec("a", "Python", attendance.Present, "2026-03-05"), // Thu
			},
			want: Summary{Present: 3, Absent: 1, Percentage: 75, Streak: 1},
		},
		{
			name: "input order does not matter for the streak",
			records: []attendance.Record{
				rec("a", "Python", attendance.Present, "2026-03-05"),
				rec("a", "Python", attendance.Absent, "2026-03-04"),
				rec("a", "Python", attendance.Present, "2026-03-03"),
				rec("a", "Python", attendance.Present, "2026-03-02"),
			},
			want: Summary{Present: 3, Absent: 1, Percentage: 75, Streak: 1},
		},
		{
			name: "most recent absent means streak zero",
			records: []attendance.Record{
				rec("a", "Python", attendance.Present, "2026-03-02"),
				rec("a", "Python", attendance.Absent, "2026-03-03"),
			},
			want: Summary{Present: 1, Absent: 1, Percentage: 50, Streak: 0},
		},
		{
			name: "percentage rounds to two decimals",
			records: []attendance.Record{
				rec("a", "Python", attendance.Present, "2026-03-02"),
				rec("a", "Python", attendance.Present, "2026-03-03"),
				rec("a", "Python", attendance.Absent, "2026-03-04"),
			},
			want: Summary{Present: 2, Absent: 1, Percentage: 66.67, Streak: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.records)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Percentage, 0.0)
			assert.LessOrEqual(t, got.Percentage, 100.0)
		})
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	records := []attendance.Record{
		rec("a", "Python", attendance.Present, "2026-03-05"),
		rec("a", "Python", attendance.Absent, "2026-03-02"),
	}
	_ = Summarize(records)
	assert.Equal(t, day("2026-03-05"), records[0].MarkedOn)
	assert.Equal(t, day("2026-03-02"), records[1].MarkedOn)
}

func TestSummarizeSameDateKeepsInsertionOrder(t *testing.T) {
	// Two rows on the same date: the stable sort keeps the first-inserted
	// first, so the walk sees Present then Absent and the streak is 1.
	records := []attendance.Record{
		rec("a", "Python", attendance.Present, "2026-03-05"),
		rec("a", "Java", attendance.Absent, "2026-03-05"),
		rec("a", "Python", attendance.Present, "2026-03-04"),
	}
	got := Summarize(records)
	assert.Equal(t, 1, got.Streak)
}

func TestClassReport(t *testing.T) {
	records := []attendance.Record{
		rec("alice", "Python", attendance.Present, "2026-03-02"),
		rec("alice", "Python", attendance.Absent, "2026-03-03"),
		rec("alice", "Java", attendance.Present, "2026-03-02"), // other subject, ignored
		rec("bob", "Python", attendance.Present, "2026-03-02"),
	}

	rows := ClassReport([]string{"bob", "alice", "carol"}, "Python", records)

	assert.Equal(t, []ClassRow{
		{Student: "bob", Present: 1, Absent: 0, Total: 1, Percentage: 100},
		{Student: "alice", Present: 1, Absent: 1, Total: 2, Percentage: 50},
		{Student: "carol", Present: 0, Absent: 0, Total: 0, Percentage: 0},
	}, rows, "output must follow input student order; empty students report 0, not null")
}

func TestClassReportCountsSumToTotal(t *testing.T) {
	records := []attendance.Record{
		rec("alice", "Python", attendance.Present, "2026-03-02"),
		rec("alice", "Python", attendance.Absent, "2026-03-03"),
		rec("alice", "Python", attendance.Present, "2026-03-04"),
	}
	rows := ClassReport([]string{"alice"}, "Python", records)
	assert.Equal(t, rows[0].Total, rows[0].Present+rows[0].Absent)
}

func TestClassAverage(t *testing.T) {
	tests := []struct {
		name        string
		percentages []float64
		want        float64
	}{
		{name: "empty class", want: 0},
		{name: "single student", percentages: []float64{75}, want: 75},
		{name: "rounded mean", percentages: []float64{100, 50, 50}, want: 66.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassAverage(tt.percentages))
		})
	}
}

func TestRowsAverageSkipsStudentsWithNoRecords(t *testing.T) {
	rows := []ClassRow{
		{Student: "alice", Present: 1, Total: 1, Percentage: 100},
		{Student: "carol"}, // never marked, excluded from the mean
	}
	assert.Equal(t, 100.0, RowsAverage(rows))

	assert.Equal(t, 0.0, RowsAverage(nil))
	assert.Equal(t, 0.0, RowsAverage([]ClassRow{{Student: "carol"}}))
}

func TestMultiSubjectReport(t *testing.T) {
	subjects := []string{"Python", "Java", "MIC"}
	records := []attendance.Record{
		rec("alice", "Python", attendance.Present, "2026-03-02"),
		rec("alice", "Python", attendance.Present, "2026-03-03"),
		rec("alice", "Java", attendance.Present, "2026-03-02"),
		rec("alice", "Java", attendance.Absent, "2026-03-03"),
		rec("bob", "Python", attendance.Present, "2026-03-02"),
	}

	m := MultiSubjectReport([]string{"alice", "bob", "carol"}, subjects, records)
	assert.Equal(t, subjects, m.Subjects)
	assert.Len(t, m.Rows, 3)

	alice := m.Rows[0]
	assert.Equal(t, 100.0, *alice.Percentages["Python"])
	assert.Equal(t, 50.0, *alice.Percentages["Java"])
	assert.Nil(t, alice.Percentages["MIC"], "subject with no records is null, not 0")
	assert.Equal(t, 75.0, alice.Total, "total averages non-null subjects only")

	bob := m.Rows[1]
	assert.Equal(t, 100.0, bob.Total, "one subject at 100%% and the rest null averages to 100")

	carol := m.Rows[2]
	for _, sub := range subjects {
		assert.Nil(t, carol.Percentages[sub])
	}
	assert.Equal(t, 0.0, carol.Total, "no records in any subject totals 0.0")
}
