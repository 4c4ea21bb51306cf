package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/report"
)

func parseStatus(raw string) (attendance.Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present":
		return attendance.Present, true
	case "absent":
		return attendance.Absent, true
	}
	return "", false
}

// teacherDashboard shows today's marks for the teacher's subject.
func (s *server) teacherDashboard(c *gin.Context) {
	subjectName, ok := s.teacherSubject(c)
	if !ok {
		return
	}
	records, err := s.marks.TodayRecords(c.Request.Context(), subjectName)
	if err != nil {
		fail(c, err)
		return
	}
	var present, absent int
	for _, r := range records {
		switch r.Status {
		case attendance.Present:
			present++
		case attendance.Absent:
			absent++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"subject":       subjectName,
		"marked":        len(records),
		"present_count": present,
		"absent_count":  absent,
	})
}

// teacherRoster lists the students of a class so the client can render the
// marking sheet.
func (s *server) teacherRoster(c *gin.Context) {
	year, division := c.Query("year"), c.Query("division")
	if year == "" || division == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and division required"})
		return
	}
	students, err := s.users.Students(c.Request.Context(), year, division)
	if err != nil {
		fail(c, err)
		return
	}
	roster := make([]gin.H, 0, len(students))
	for _, u := range students {
		roster = append(roster, gin.H{"id": u.ID, "name": u.Username})
	}
	c.JSON(http.StatusOK, gin.H{"students": roster, "year": year, "division": division})
}

// teacherMark upserts today's status for one student in the teacher's own
// subject. Re-marking the same student overwrites, never duplicates.
func (s *server) teacherMark(c *gin.Context) {
	subjectName, ok := s.teacherSubject(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" form:"status" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}
	status, valid := parseStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be Present or Absent"})
		return
	}

	rec, err := s.marks.Mark(c.Request.Context(), c.Param("student"), subjectName, status)
	if err != nil {
		fail(c, err)
		return
	}
	marksTotal.WithLabelValues(string(status)).Inc()
	c.JSON(http.StatusOK, gin.H{"record": rec})
}

type monthlyReport struct {
	Subject      string            `json:"subject"`
	Year         string            `json:"year"`
	Division     string            `json:"division"`
	Report       []report.ClassRow `json:"report"`
	ClassAverage float64           `json:"class_average"`
}

// teacherMonthlyReport aggregates the class for the teacher's subject. An
// empty class renders an empty report with average 0, not an error.
func (s *server) teacherMonthlyReport(c *gin.Context) {
	subjectName, ok := s.teacherSubject(c)
	if !ok {
		return
	}
	year, division := c.Query("year"), c.Query("division")
	if year == "" || division == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and division required"})
		return
	}

	cacheName := "monthly:" + subjectName + ":" + year + ":" + division
	var payload monthlyReport
	if hit, err := s.cache.Get(c.Request.Context(), cacheName, &payload); err == nil && hit {
		c.JSON(http.StatusOK, payload)
		return
	}

	students, err := s.users.Students(c.Request.Context(), year, division)
	if err != nil {
		fail(c, err)
		return
	}
	names := make([]string, 0, len(students))
	var records []attendance.Record
	for _, u := range students {
		names = append(names, u.Username)
		recs, err := s.marks.SubjectRecords(c.Request.Context(), u.Username, subjectName)
		if err != nil {
			fail(c, err)
			return
		}
		records = append(records, recs...)
	}

	rows := report.ClassReport(names, subjectName, records)
	payload = monthlyReport{
		Subject:      subjectName,
		Year:         year,
		Division:     division,
		Report:       rows,
		ClassAverage: report.RowsAverage(rows),
	}
	if err := s.cache.Set(c.Request.Context(), cacheName, payload); err != nil {
		log.Printf("report cache write failed: %v", err)
	}
	c.JSON(http.StatusOK, payload)
}
