// Package report computes attendance figures from record snapshots. All
// functions are pure: they never touch storage and never mutate their inputs.
package report

import (
	"math"
	"sort"

	"classtrack/internal/attendance"
)

// Summary is one student's overall standing.
type Summary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
	Streak     int     `json:"streak"`
}

// Summarize aggregates a student's records. Percentage is present/total
// rounded to two decimals, 0 when there are no records. Streak counts
// consecutive Present entries from the most recent date backward; records are
// ordered descending by date with a stable sort, so rows sharing a date keep
// their input (insertion) order.
func Summarize(records []attendance.Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case attendance.Present:
			s.Present++
		case attendance.Absent:
			s.Absent++
		}
	}
	if total := len(records); total > 0 {
		s.Percentage = round2(float64(s.Present) / float64(total) * 100)
	}

	ordered := make([]attendance.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MarkedOn.After(ordered[j].MarkedOn)
	})
	for _, r := range ordered {
		if r.Status != attendance.Present {
			break
		}
		s.Streak++
	}
	return s
}

// ClassRow is one student's standing within a single-subject class report.
type ClassRow struct {
	Student    string  `json:"student"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ClassReport builds per-student rows for one subject. Output order follows
// the input student order. A student with no records reports percentage 0,
// not null; the multi-subject matrix is the one place that distinguishes the
// two.
func ClassReport(students []string, subject string, records []attendance.Record) []ClassRow {
	rows := make([]ClassRow, 0, len(students))
	for _, student := range students {
		row := ClassRow{Student: student}
		for _, r := range records {
			if r.Student != student || r.Subject != subject {
				continue
			}
			row.Total++
			switch r.Status {
			case attendance.Present:
				row.Present++
			case attendance.Absent:
				row.Absent++
			}
		}
		if row.Total > 0 {
			row.Percentage = round2(float64(row.Present) / float64(row.Total) * 100)
		}
		rows = append(rows, row)
	}
	return rows
}

// ClassAverage is the mean of the given percentages rounded to two decimals,
// 0 when the list is empty. Callers must pass only percentages of students
// with at least one recorded class.
func ClassAverage(percentages []float64) float64 {
	if len(percentages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range percentages {
		sum += p
	}
	return round2(sum / float64(len(percentages)))
}

// RowsAverage extracts the class average from report rows, skipping students
// with no recorded classes.
func RowsAverage(rows []ClassRow) float64 {
	var withRecords []float64
	for _, row := range rows {
		if row.Total > 0 {
			withRecords = append(withRecords, row.Percentage)
		}
	}
	return ClassAverage(withRecords)
}

// Matrix is the coordinator's cross-subject view. Subjects fixes the column
// order; each row's Percentages map holds nil for subjects with no records.
type Matrix struct {
	Subjects []string    `json:"subjects"`
	Rows     []MatrixRow `json:"rows"`
}

// MatrixRow is one student's line in the matrix. Total averages the non-nil
// subject percentages only, so a subject never taught doesn't drag the figure
// down. It is 0 when every subject is nil.
type MatrixRow struct {
	Student     string              `json:"student"`
	Percentages map[string]*float64 `json:"percentages"`
	Total       float64             `json:"total"`
}

// MultiSubjectReport builds the matrix for the given students and subjects.
// Row order follows the input student order.
func MultiSubjectReport(students, subjects []string, records []attendance.Record) Matrix {
	m := Matrix{Subjects: subjects, Rows: make([]MatrixRow, 0, len(students))}
	for _, student := range students {
		row := MatrixRow{Student: student, Percentages: make(map[string]*float64, len(subjects))}
		var sum float64
		var counted int
		for _, sub := range subjects {
			var present, total int
			for _, r := range records {
				if r.Student != student || r.Subject != sub {
					continue
				}
				total++
				if r.Status == attendance.Present {
					present++
				}
			}
			if total == 0 {
				row.Percentages[sub] = nil
				continue
			}
			pct := round2(float64(present) / float64(total) * 100)
			row.Percentages[sub] = &pct
			sum += pct
			counted++
		}
		if counted > 0 {
			row.Total = round2(sum / float64(counted))
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
