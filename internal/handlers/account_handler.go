package handlers

import (
	"log"

	"blogapp/internal/services"
	"blogapp/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles the profile page.
type AccountHandler struct {
	accountService *services.AccountService
	sessions       *session.Manager
	validate       *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService, sessions *session.Manager) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		sessions:       sessions,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the account routes behind the login guard.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Get("/account", guard, h.AccountPage)
	router.Post("/account", guard, h.HandleUpdateAccount)
}

// UpdateAccountForm represents the profile form fields. The picture upload
// is read from the multipart body separately.
type UpdateAccountForm struct {
	Username string `form:"username" validate:"required,min=3,max=100"`
	Email    string `form:"email" validate:"required,email"`
}

// AccountPage renders the profile form pre-filled with the current values.
func (h *AccountHandler) AccountPage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}
	return render(c, h.sessions, "account", fiber.Map{
		"Title": "Account",
		"Form":  UpdateAccountForm{Username: user.Username, Email: user.Email},
	})
}

// HandleUpdateAccount writes the new username/email and stores an uploaded
// picture when one is present.
func (h *AccountHandler) HandleUpdateAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	var form UpdateAccountForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "account", fiber.Map{
			"Title":  "Account",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "account", fiber.Map{
			"Title":  "Account",
			"Form":   form,
			"Errors": validationMessages(err),
		})
	}

	// The picture field is optional; a missing file is not an error.
	picture, err := c.FormFile("picture")
	if err != nil {
		picture = nil
	}

	if err := h.accountService.UpdateProfile(user, form.Username, form.Email, picture); err != nil {
		log.Printf("Error updating profile: %v", err)
		return render(c, h.sessions, "account", fiber.Map{
			"Title":  "Account",
			"Form":   form,
			"Errors": map[string]string{"Form": "Could not update your account"},
		})
	}

	h.sessions.Flash(c, "success", "Your account has been updated.")
	return c.Redirect("/account")
}
