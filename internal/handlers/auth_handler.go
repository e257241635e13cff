package handlers

import (
	"errors"
	"log"

	"blogapp/internal/middleware"
	"blogapp/internal/services"
	"blogapp/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login/logout and the password-reset
// pages.
type AuthHandler struct {
	authService *services.AuthService
	sessions    *session.Manager
	baseURL     string
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler. baseURL is the externally
// reachable origin used to build reset links.
func NewAuthHandler(authService *services.AuthService, sessions *session.Manager, baseURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		baseURL:     baseURL,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/register", h.RegisterPage)
	router.Post("/register", h.HandleRegister)
	router.Get("/login", h.LoginPage)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
	router.Get("/reset_password", h.RequestResetPage)
	router.Post("/reset_password", h.HandleRequestReset)
	router.Get("/reset_password/:token", h.ResetPasswordPage)
	router.Post("/reset_password/:token", h.HandleResetPassword)
}

// redirectIfAuthenticated sends logged-in users home; the auth pages are for
// anonymous visitors only.
func (h *AuthHandler) redirectIfAuthenticated(c *fiber.Ctx) bool {
	_, ok := h.sessions.CurrentUserID(c)
	return ok
}

// RegisterForm represents the registration form fields.
type RegisterForm struct {
	Username        string `form:"username" validate:"required,min=3,max=100"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}
	return render(c, h.sessions, "register", fiber.Map{"Title": "Register"})
}

// HandleRegister creates the account and sends the user to the login page.
// The new user is deliberately not logged in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}

	var form RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "register", fiber.Map{
			"Title":  "Register",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "register", fiber.Map{
			"Title":  "Register",
			"Form":   form,
			"Errors": validationMessages(err),
		})
	}

	_, err := h.authService.RegisterUser(form.Username, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) || errors.Is(err, services.ErrEmailTaken) {
			return render(c, h.sessions, "register", fiber.Map{
				"Title":  "Register",
				"Form":   form,
				"Errors": map[string]string{"Form": err.Error()},
			})
		}
		log.Printf("Error registering user: %v", err)
		return fiber.ErrInternalServerError
	}

	h.sessions.Flash(c, "success", "Your account has been created. You are now able to log in.")
	return c.Redirect("/login")
}

// LoginForm represents the login form fields.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember"`
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}
	return render(c, h.sessions, "login", fiber.Map{
		"Title": "Login",
		"Next":  c.Query("next"),
	})
}

// HandleLogin verifies the credentials against the stored hash and binds the
// session. A validated next target wins over the home redirect.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}

	var form LoginForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "login", fiber.Map{
			"Title":  "Login",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "login", fiber.Map{
			"Title":  "Login",
			"Form":   form,
			"Errors": validationMessages(err),
		})
	}

	user, err := h.authService.Authenticate(form.Email, form.Password)
	if err != nil {
		// Same message for unknown email and wrong password.
		h.sessions.Flash(c, "danger", "Login unsuccessful. Please check email and password.")
		return render(c, h.sessions, "login", fiber.Map{
			"Title": "Login",
			"Form":  form,
			"Next":  c.Query("next"),
		})
	}

	if err := h.sessions.Login(c, user, form.Remember); err != nil {
		log.Printf("Error establishing session: %v", err)
		return fiber.ErrInternalServerError
	}

	if next := c.Query("next"); middleware.ValidNext(next) {
		return c.Redirect(next)
	}
	return c.Redirect("/home")
}

// HandleLogout clears the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c); err != nil {
		log.Printf("Error destroying session: %v", err)
	}
	return c.Redirect("/home")
}

// RequestResetForm represents the reset-request form fields.
type RequestResetForm struct {
	Email string `form:"email" validate:"required,email"`
}

// RequestResetPage renders the form asking for the account email.
func (h *AuthHandler) RequestResetPage(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}
	return render(c, h.sessions, "request_reset", fiber.Map{"Title": "Reset Password"})
}

// HandleRequestReset mails a reset link when the address is registered. The
// response is identical either way, so the form cannot be used to check
// whether an email has an account.
func (h *AuthHandler) HandleRequestReset(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}

	var form RequestResetForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "request_reset", fiber.Map{
			"Title":  "Reset Password",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "request_reset", fiber.Map{
			"Title":  "Reset Password",
			"Form":   form,
			"Errors": validationMessages(err),
		})
	}

	if err := h.authService.RequestPasswordReset(form.Email, h.baseURL); err != nil {
		log.Printf("Error handling reset request: %v", err)
		return fiber.ErrInternalServerError
	}

	h.sessions.Flash(c, "info", "An email has been sent with instructions to reset your password.")
	return c.Redirect("/login")
}

// ResetPasswordForm represents the new-password form fields.
type ResetPasswordForm struct {
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// ResetPasswordPage verifies the token before showing the new-password form.
func (h *AuthHandler) ResetPasswordPage(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}

	token := c.Params("token")
	if _, err := h.authService.VerifyResetToken(token); err != nil {
		h.sessions.Flash(c, "warning", "That is an invalid or expired token.")
		return c.Redirect("/reset_password")
	}
	return render(c, h.sessions, "reset_token", fiber.Map{"Title": "Reset Password"})
}

// HandleResetPassword consumes the token and overwrites the stored hash.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	if h.redirectIfAuthenticated(c) {
		return c.Redirect("/home")
	}

	var form ResetPasswordForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "reset_token", fiber.Map{
			"Title":  "Reset Password",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "reset_token", fiber.Map{
			"Title":  "Reset Password",
			"Errors": validationMessages(err),
		})
	}

	err := h.authService.ResetPassword(c.Params("token"), form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			h.sessions.Flash(c, "warning", "That is an invalid or expired token.")
			return c.Redirect("/reset_password")
		}
		log.Printf("Error resetting password: %v", err)
		return fiber.ErrInternalServerError
	}

	h.sessions.Flash(c, "success", "Your password has been updated. You are now able to log in.")
	return c.Redirect("/login")
}
