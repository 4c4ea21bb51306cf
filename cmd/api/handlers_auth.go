package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/user"
)

// setup bootstraps the very first admin account. Guarded by the setup key so
// an open port can't be claimed by whoever connects first.
func (s *server) setup(c *gin.Context) {
	var req struct {
		SecretKey string `json:"secret_key" form:"secret_key" binding:"required"`
		Username  string `json:"username" form:"username" binding:"required"`
		Password  string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.cfg.SetupKey == "" || req.SecretKey != s.cfg.SetupKey {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid setup key"})
		return
	}
	u, err := s.users.Bootstrap(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrValidation) {
			c.JSON(http.StatusConflict, gin.H{"error": "already configured"})
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": u.Username, "role": u.Role})
}

// loginInfo tells the client whether first-run setup is still pending, the
// JSON equivalent of the login page redirecting to /setup.
func (s *server) loginInfo(c *gin.Context) {
	hasAdmin, err := s.users.HasAdmin(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"setup_required": !hasAdmin})
}

// login checks credentials and issues a session. The failure message never
// distinguishes an unknown username from a wrong password.
func (s *server) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" form:"username" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	u, err := s.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		loginsTotal.WithLabelValues("denied").Inc()
		switch {
		case errors.Is(err, user.ErrInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account locked"})
		case errors.Is(err, user.ErrBadCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			fail(c, err)
		}
		return
	}

	token, exp, err := auth.IssueSession(u, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	loginsTotal.WithLabelValues("ok").Inc()

	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(auth.SessionCookie, token, int(s.cfg.SessionTTL.Seconds()), "/", "", secure, true)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp.Unix(),
		"home":       u.Role.HomePath(),
	})
}

// logout clears the session cookie.
func (s *server) logout(c *gin.Context) {
	secure := gin.Mode() == gin.ReleaseMode
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", secure, true)
	c.Redirect(http.StatusFound, "/login")
}
