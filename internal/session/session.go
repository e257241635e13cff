// Package session tracks the authenticated identity attached to a request
// and carries one-shot flash messages between redirects.
package session

import (
	"encoding/gob"
	"fmt"
	"time"

	"blogapp/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	userIDKey  = "user_id"
	flashesKey = "flashes"

	// rememberDuration is how long a "remember me" session outlives the
	// default cookie lifetime.
	rememberDuration = 30 * 24 * time.Hour
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string // success, info, warning, danger
	Message  string
}

func init() {
	gob.Register([]Flash{})
}

// Manager binds user identity and flash messages to the session cookie.
type Manager struct {
	store *session.Store
}

// NewManager creates a Manager backed by Fiber's cookie session store.
func NewManager() *Manager {
	return &Manager{
		store: session.New(session.Config{
			KeyLookup:      "cookie:session_id",
			Expiration:     24 * time.Hour,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
		}),
	}
}

// CurrentUserID returns the authenticated user's ID for this request, or
// false when the session is anonymous.
func (m *Manager) CurrentUserID(c *fiber.Ctx) (uint, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Get(userIDKey).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Login binds the session to the given user. With remember set, the session
// cookie is extended well past the default lifetime.
func (m *Manager) Login(c *fiber.Ctx, user *models.User, remember bool) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	sess.Set(userIDKey, user.ID)
	if remember {
		sess.SetExpiry(rememberDuration)
	}
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Logout destroys the session, returning the caller to anonymous.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// Flash queues a one-shot message for the next rendered page.
func (m *Manager) Flash(c *fiber.Ctx, category, message string) {
	sess, err := m.store.Get(c)
	if err != nil {
		return
	}
	flashes, _ := sess.Get(flashesKey).([]Flash)
	flashes = append(flashes, Flash{Category: category, Message: message})
	sess.Set(flashesKey, flashes)
	// Flash loss on a failed save only drops a notice, never state.
	_ = sess.Save()
}

// Flashes returns and clears all queued flash messages.
func (m *Manager) Flashes(c *fiber.Ctx) []Flash {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil
	}
	flashes, _ := sess.Get(flashesKey).([]Flash)
	if len(flashes) > 0 {
		sess.Delete(flashesKey)
		_ = sess.Save()
	}
	return flashes
}
