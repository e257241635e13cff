package handlers

import (
	"fmt"

	"blogapp/internal/middleware"
	"blogapp/internal/models"
	"blogapp/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// render draws a view with the layout data every page needs: queued flash
// messages and the authenticated user for the navbar.
func render(c *fiber.Ctx, sessions *session.Manager, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flashes"] = sessions.Flashes(c)
	if user, ok := currentUser(c); ok {
		data["CurrentUser"] = user
	}
	return c.Render(name, data)
}

// currentUser returns the user LoadUser resolved for this request.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(middleware.CurrentUserKey).(*models.User)
	return user, ok
}

// validationMessages flattens validator errors into a field → message map
// for redisplaying a form.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		messages["Form"] = "Invalid input"
		return messages
	}
	for _, e := range validationErrors {
		messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
	}
	return messages
}
