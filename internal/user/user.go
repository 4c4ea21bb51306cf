package user

import "time"

// Role is the closed set of account roles. Dispatching on anything outside
// this set is a bug, not a fallthrough.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleTeacher     Role = "teacher"
	RoleCoordinator Role = "cc"
	RoleStudent     Role = "student"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleCoordinator, RoleStudent:
		return true
	}
	return false
}

// HomePath is the role's default landing view; soft denials redirect here.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleTeacher:
		return "/teacher"
	case RoleCoordinator:
		return "/cc/report"
	case RoleStudent:
		return "/student"
	}
	return "/login"
}

// User is an account row. Students carry year/division, teachers carry the
// subject they mark.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Year         string    `json:"year,omitempty"`
	Division     string    `json:"division,omitempty"`
	SubjectID    *string   `json:"subject_id,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
