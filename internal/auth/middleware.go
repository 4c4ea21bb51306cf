package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the signed session token for browser clients; API
// clients may send it as a bearer token instead.
const SessionCookie = "classtrack_session"

const claimsKey = "claims"

// SessionAuth validates the session token from cookie or Authorization
// header. A missing or invalid session is a soft denial: redirect to /login,
// never an error page.
func SessionAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			tokenStr = cookie
		} else if authz := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			tokenStr = strings.TrimSpace(authz[len("bearer "):])
		}
		if tokenStr == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAction gates a route on the action's owning role. Denial redirects
// to the caller's own home view rather than erroring; this mirrors the UX of
// the web flows and is not a substitute for the check itself.
func RequireAction(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !Allowed(claims.Role, action) {
			c.Redirect(http.StatusFound, claims.Role.HomePath())
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the authenticated session claims, if any.
func CurrentClaims(c *gin.Context) (Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
