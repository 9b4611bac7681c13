package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"burgerreview/internal/app"
	"burgerreview/internal/model"
)

const (
	ContextUserKey      = "current_user"
	ContextSessionIDKey = "session_id"
)

type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// LoadSession attaches the logged-in user to the request when the session
// cookie resolves. Anonymous requests pass through untouched.
func LoadSession(resolver SessionResolver, cookieName string, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		user, err := resolver.CurrentUser(c.Request.Context(), sessionID)
		switch {
		case err == nil:
			c.Set(ContextUserKey, user)
			c.Set(ContextSessionIDKey, sessionID)
		case errors.Is(err, app.ErrUnauthenticated):
		default:
			log.Warnw("resolve session failed", "error", err)
		}
		c.Next()
	}
}

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionIDKey)
}
