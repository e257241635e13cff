package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"blogapp/internal/models"
	"blogapp/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Mailer delivers the password-reset link to a user's registered address.
type Mailer interface {
	SendPasswordReset(to, link string) error
}

// AuthService handles registration, credential checks and the signed
// password-reset token flow.
type AuthService struct {
	userRepo repositories.UserRepository
	mailer   Mailer
	secret   []byte
	resetTTL time.Duration
}

// NewAuthService creates a new AuthService signing reset tokens with the
// given secret key.
func NewAuthService(userRepo repositories.UserRepository, mailer Mailer, secretKey string) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mailer:   mailer,
		secret:   []byte(secretKey),
		resetTTL: 30 * time.Minute,
	}
}

// RegisterUser hashes the password and creates the account. The caller is
// not logged in afterwards; registration always leads back to the login page.
func (s *AuthService) RegisterUser(username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Authenticate looks the user up by email and verifies the submitted
// password against the stored bcrypt hash. Unknown email and wrong password
// both come back as ErrInvalidCredentials.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueResetToken signs a short-lived token embedding the user's ID.
// The token is self-contained and never stored server-side.
func (s *AuthService) IssueResetToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(s.resetTTL).Unix(),
		"iat":     now.Unix(),
	})
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return tokenString, nil
}

// VerifyResetToken checks signature and expiry in one step and resolves the
// embedded user. Every failure mode collapses to ErrInvalidToken so callers
// cannot distinguish why a token was rejected.
func (s *AuthService) VerifyResetToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID < 1 {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(uint(rawID))
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// RequestPasswordReset mails a reset link to the address if it belongs to a
// registered user. The outcome is identical either way so the endpoint
// cannot be used to probe which emails are registered.
func (s *AuthService) RequestPasswordReset(email, baseURL string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up email for reset: %w", err)
	}

	token, err := s.IssueResetToken(user)
	if err != nil {
		return err
	}
	link := baseURL + "/reset_password/" + token
	if err := s.mailer.SendPasswordReset(user.Email, link); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}
	return nil
}

// ResetPassword verifies the token and overwrites the user's stored hash
// with a hash of the new password.
func (s *AuthService) ResetPassword(tokenString, newPassword string) error {
	user, err := s.VerifyResetToken(tokenString)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}
