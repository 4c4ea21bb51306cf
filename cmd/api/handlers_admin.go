package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/user"
)

const usersPerPage = 10

func (s *server) adminListUsers(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	users, err := s.users.List(c.Request.Context(), page, usersPerPage)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "page": page, "per_page": usersPerPage})
}

func (s *server) adminListSubjects(c *gin.Context) {
	subjects, err := s.subjects.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

func (s *server) adminCreateUser(c *gin.Context) {
	var req struct {
		Username  string `json:"username" form:"username" binding:"required"`
		Password  string `json:"password" form:"password" binding:"required"`
		Role      string `json:"role" form:"role" binding:"required"`
		Year      string `json:"year" form:"year"`
		Division  string `json:"division" form:"division"`
		SubjectID string `json:"subject_id" form:"subject_id"`
		Phone     string `json:"phone" form:"phone"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := user.NewUser{
		Username: req.Username,
		Password: req.Password,
		Role:     user.Role(req.Role),
		Year:     req.Year,
		Division: req.Division,
		Phone:    req.Phone,
	}
	if in.Role == user.RoleTeacher {
		if req.SubjectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "teacher accounts need a subject"})
			return
		}
		sub, err := s.subjects.Get(c.Request.Context(), req.SubjectID)
		if err != nil {
			fail(c, err)
			return
		}
		if sub == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown subject"})
			return
		}
		in.SubjectID = sub.ID
	}

	u, err := s.users.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// adminToggleUser soft-locks or unlocks an account. The service refuses to
// touch the acting admin or the last active admin.
func (s *server) adminToggleUser(c *gin.Context) {
	claims, _ := auth.CurrentClaims(c)
	u, err := s.users.Toggle(c.Request.Context(), claims.Subject, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (s *server) adminDeleteUser(c *gin.Context) {
	claims, _ := auth.CurrentClaims(c)
	if err := s.users.Delete(c.Request.Context(), claims.Subject, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
