package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders the shared error page for anything a route returned
// as an error. Unexpected failures are logged and shown as a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	var title, message string
	switch code {
	case fiber.StatusNotFound:
		title = "Page Not Found"
		message = "That page does not exist. Please check the address and try again."
	case fiber.StatusForbidden:
		title = "You don't have permission to do that"
		message = "Please check your account and try again."
	default:
		title = "Something went wrong"
		message = "We're experiencing some trouble on our end. Please try again later."
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	if renderErr := c.Status(code).Render("error", fiber.Map{
		"Code":    code,
		"Title":   title,
		"Message": message,
	}); renderErr != nil {
		return c.Status(code).SendString(title)
	}
	return nil
}
