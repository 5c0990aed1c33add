package httpserver

import (
	"net/http"
	"strings"

	"herbstore/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "herb_session"
	sessionCtxKey = "session"
	// Session cookies outlive the process; carts are rebuilt from the
	// local store under the same id.
	sessionMaxAge = 60 * 60 * 24 * 90
)

// sessionMiddleware resolves (or creates) the caller's session and puts
// it on the gin context.
func sessionMiddleware(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess := registry.GetOrCreate(id)
		if sess.ID != id {
			c.SetCookie(sessionCookie, sess.ID, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

// identityMiddleware rebinds the session's identity from a bearer token.
// Covers the server restarting, or a returning visitor with a live token:
// the signal transition triggers cart hydration. Requests without a token
// leave the binding untouched; only login/logout change it explicitly.
func identityMiddleware(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		sess := sessionFrom(c)
		if sess == nil || sess.Identity.Current() != nil {
			c.Next()
			return
		}
		if cust, err := customers.LookupByToken(c.Request.Context(), token); err == nil {
			id := cust.ID
			sess.Identity.Set(&id)
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

func mustSession(c *gin.Context) (*session.Session, bool) {
	sess := sessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return nil, false
	}
	return sess, true
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
