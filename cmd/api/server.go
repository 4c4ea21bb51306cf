package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/report"
	"classtrack/internal/subject"
	"classtrack/internal/user"
)

type server struct {
	cfg      config.App
	users    *user.Service
	marks    *attendance.Service
	subjects *subject.Repository
	cache    *report.Cache
}

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
	marksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_marks_total",
		Help: "Attendance marks written, by status.",
	}, []string{"status"})
)

// fail maps service errors onto the transport. Validation problems are 400,
// unknown admin-link ids are 404, everything unexpected is a logged 500.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrValidation), errors.Is(err, attendance.ErrValidation),
		errors.Is(err, user.ErrSelfTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrUsernameTaken), errors.Is(err, user.ErrLastAdmin):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// teacherSubject resolves the authenticated teacher's subject name.
func (s *server) teacherSubject(c *gin.Context) (string, bool) {
	claims, _ := auth.CurrentClaims(c)
	u, err := s.users.Get(c.Request.Context(), claims.Subject)
	if err != nil {
		fail(c, err)
		return "", false
	}
	if u.SubjectID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no subject assigned"})
		return "", false
	}
	sub, err := s.subjects.Get(c.Request.Context(), *u.SubjectID)
	if err != nil {
		fail(c, err)
		return "", false
	}
	if sub == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no subject assigned"})
		return "", false
	}
	return sub.Name, true
}
