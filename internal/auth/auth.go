// Package auth carries the caller identity through a request as an explicit
// Principal value loaded from the cookie session.
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	principalKey       = "__principal"

	// LoginPath is where AuthRequired sends anonymous callers.
	LoginPath = "/accounts/login"
)

// Principal identifies the caller of a request. The zero value is anonymous.
type Principal struct {
	UserID   uint
	Username string
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// Authenticated reports whether the principal refers to a logged-in user.
func (p Principal) Authenticated() bool {
	return p.UserID != 0
}

// ErrUnknownPrincipal is returned by a Lookup when the session refers to a
// user that no longer exists.
var ErrUnknownPrincipal = errors.New("principal no longer exists")

// Lookup resolves the user id stored in a session to the current principal.
type Lookup func(ctx context.Context, userID uint) (Principal, error)

// LoadPrincipal reads the session and stores the resulting principal in the
// gin context. It must run after the sessions middleware. When lookup is set,
// the session user is checked against the user directory on every request and
// sessions of deleted users are cleared.
func LoadPrincipal(lookup Lookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		principal := fromSession(session)

		if principal.Authenticated() && lookup != nil {
			resolved, err := lookup(c.Request.Context(), principal.UserID)
			switch {
			case err == nil:
				principal = resolved
			case errors.Is(err, ErrUnknownPrincipal):
				log.Printf("[auth] session user %d no longer exists, clearing session", principal.UserID)
				session.Clear()
				if err := session.Save(); err != nil {
					log.Printf("[auth] failed to clear session: %v", err)
				}
				principal = Anonymous()
			default:
				log.Printf("[auth] failed to resolve session user %d: %v", principal.UserID, err)
				principal = Anonymous()
			}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// FromContext returns the principal attached by LoadPrincipal, or Anonymous.
func FromContext(c *gin.Context) Principal {
	if value, exists := c.Get(principalKey); exists {
		if principal, ok := value.(Principal); ok {
			return principal
		}
	}
	return Anonymous()
}

// AuthRequired redirects anonymous callers to the login page and aborts the chain.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if FromContext(c).Authenticated() {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// SignIn records the user in the session and the current request.
func SignIn(c *gin.Context, principal Principal) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, principal.UserID)
	session.Set(sessionUsernameKey, principal.Username)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(principalKey, principal)
	return nil
}

// SignOut clears the session.
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	c.Set(principalKey, Anonymous())
	return session.Save()
}

// LoginURL builds the login link that returns to next after signing in.
func LoginURL(next string) string {
	if !IsSafeRedirect(next) {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// IsSafeRedirect accepts only local absolute paths.
func IsSafeRedirect(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	return true
}

func fromSession(session sessions.Session) Principal {
	var principal Principal
	switch id := session.Get(sessionUserIDKey).(type) {
	case uint:
		principal.UserID = id
	case int:
		if id > 0 {
			principal.UserID = uint(id)
		}
	case int64:
		if id > 0 {
			principal.UserID = uint(id)
		}
	}
	if principal.UserID == 0 {
		return Anonymous()
	}
	if name, ok := session.Get(sessionUsernameKey).(string); ok {
		principal.Username = name
	}
	return principal
}
