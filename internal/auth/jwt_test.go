package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"classtrack/internal/user"
)

func TestSessionRoundTrip(t *testing.T) {
	u := user.User{ID: "u-1", Username: "alice", Role: user.RoleTeacher}

	token, exp, err := IssueSession(u, "classtrack", "secret", time.Hour)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := Parse(token, "secret", "classtrack")
	assert.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, user.RoleTeacher, claims.Role)
}

func TestParseRejections(t *testing.T) {
	u := user.User{ID: "u-1", Username: "alice", Role: user.RoleStudent}
	token, _, err := IssueSession(u, "classtrack", "secret", time.Hour)
	assert.NoError(t, err)

	expired, _, err := IssueSession(u, "classtrack", "secret", -time.Minute)
	assert.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{name: "garbage", token: "not-a-token", key: "secret", issuer: "classtrack"},
		{name: "wrong key", token: token, key: "other", issuer: "classtrack"},
		{name: "issuer mismatch", token: token, key: "secret", issuer: "someone-else"},
		{name: "expired", token: expired, key: "secret", issuer: "classtrack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, tt.key, tt.issuer)
			assert.Error(t, err)
		})
	}
}
