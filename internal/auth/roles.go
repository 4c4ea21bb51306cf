package auth

import "classtrack/internal/user"

// Action names every role-gated operation. Each action is owned by exactly
// one role; the table below is the single source of truth for dispatch, in
// place of equality checks scattered across handlers.
type Action string

const (
	ActionManageUsers    Action = "manage-users"
	ActionMarkAttendance Action = "mark-attendance"
	ActionClassReport    Action = "class-report"
	ActionMatrixReport   Action = "matrix-report"
	ActionOwnSummary     Action = "own-summary"
)

var permitted = map[Action]user.Role{
	ActionManageUsers:    user.RoleAdmin,
	ActionMarkAttendance: user.RoleTeacher,
	ActionClassReport:    user.RoleTeacher,
	ActionMatrixReport:   user.RoleCoordinator,
	ActionOwnSummary:     user.RoleStudent,
}

// Allowed reports whether the role may invoke the action.
func Allowed(role user.Role, a Action) bool {
	want, ok := permitted[a]
	return ok && role == want
}
