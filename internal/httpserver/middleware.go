package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

// sessionCookie is the only client-side auth state; the userInfo object
// itself lives in the session store.
const sessionCookie = "sf_session"

const userCtxKey = "currentUser"

// sessionMiddleware resolves the session cookie to a user when present.
// It never aborts: anonymous visitors browse freely and simply see an
// empty cart.
func sessionMiddleware(sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		user, err := sessions.Lookup(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthenticated) {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "session lookup failed"})
				c.Abort()
				return
			}
			c.Next()
			return
		}
		c.Set(userCtxKey, user)
		c.Next()
	}
}

// currentUser returns the signed-in user, or nil.
func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// requireUser aborts with the unauthenticated message the UI shows as a
// sign-in prompt. No downstream network call happens.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "please sign in first"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireAdmin gates the back-office reads.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.Admin {
			c.JSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
