package main

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/report"
)

// buildMatrix assembles the coordinator's cross-subject matrix, serving from
// cache when a fresh copy exists.
func (s *server) buildMatrix(c *gin.Context) (report.Matrix, error) {
	var m report.Matrix
	if hit, err := s.cache.Get(c.Request.Context(), "cc", &m); err == nil && hit {
		return m, nil
	}

	students, err := s.users.AllStudents(c.Request.Context())
	if err != nil {
		return report.Matrix{}, err
	}
	subjects, err := s.subjects.List(c.Request.Context())
	if err != nil {
		return report.Matrix{}, err
	}

	names := make([]string, 0, len(students))
	var records []attendance.Record
	for _, u := range students {
		names = append(names, u.Username)
		recs, err := s.marks.StudentRecords(c.Request.Context(), u.Username)
		if err != nil {
			return report.Matrix{}, err
		}
		records = append(records, recs...)
	}
	subjectNames := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		subjectNames = append(subjectNames, sub.Name)
	}

	m = report.MultiSubjectReport(names, subjectNames, records)
	if err := s.cache.Set(c.Request.Context(), "cc", m); err != nil {
		log.Printf("report cache write failed: %v", err)
	}
	return m, nil
}

func (s *server) ccReport(c *gin.Context) {
	m, err := s.buildMatrix(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *server) ccReportExport(c *gin.Context) {
	m, err := s.buildMatrix(c)
	if err != nil {
		fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, m); err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// studentDashboard shows the authenticated student their own record.
func (s *server) studentDashboard(c *gin.Context) {
	claims, _ := auth.CurrentClaims(c)
	records, err := s.marks.StudentRecords(c.Request.Context(), claims.Username)
	if err != nil {
		fail(c, err)
		return
	}
	summary := report.Summarize(records)
	c.JSON(http.StatusOK, gin.H{
		"username": claims.Username,
		"summary":  summary,
		"records":  records,
	})
}
