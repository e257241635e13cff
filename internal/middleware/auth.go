package middleware

import (
	"net/url"
	"regexp"

	"blogapp/internal/repositories"
	"blogapp/internal/session"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the Locals key holding the authenticated *models.User,
// set by LoadUser for every request with a live session.
const CurrentUserKey = "currentUser"

var postUpdatePath = regexp.MustCompile(`^/post/\d+/update$`)

// ValidNext reports whether path is a login-protected route that a
// successful login may redirect back to. Anything else falls back to /home,
// which rules out open redirects and login loops.
func ValidNext(path string) bool {
	if path == "/account" || path == "/post/new" {
		return true
	}
	return postUpdatePath.MatchString(path)
}

// LoadUser resolves the session identity to a full user record and stores it
// in Locals for handlers and templates. Anonymous requests pass through.
func LoadUser(sessions *session.Manager, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := sessions.CurrentUserID(c); ok {
			if user, err := users.GetByID(id); err == nil {
				c.Locals(CurrentUserKey, user)
			}
		}
		return c.Next()
	}
}

// LoginRequired redirects anonymous callers to the login page, preserving
// the originally requested path in the next parameter.
func LoginRequired(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := sessions.CurrentUserID(c); ok {
			return c.Next()
		}
		return c.Redirect("/login?next=" + url.QueryEscape(c.Path()))
	}
}
