package services_test

import (
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"blogapp/internal/models"
	"blogapp/internal/repositories"
	"blogapp/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockMailer records sent reset mails.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(to, link string) error {
	args := m.Called(to, link)
	return args.Error(0)
}

const testSecret = "test_secret_key"

func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	os.Exit(m.Run())
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, new(MockMailer), testSecret)

	// Successful registration stores a bcrypt hash, never the plaintext.
	var created *models.User
	mockRepo.On("GetByUsername", "testuser").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once().
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*models.User)
		})

	user, err := authService.RegisterUser("testuser", "test@example.com", "password123")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotEqual(t, "password123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Username already taken.
	mockRepo.On("GetByUsername", "testuser").Return(&models.User{ID: 1}, nil).Once()
	_, err = authService.RegisterUser("testuser", "other@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUsernameTaken)
	mockRepo.AssertExpectations(t)

	// Email already registered.
	mockRepo.On("GetByUsername", "otheruser").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("GetByEmail", "test@example.com").Return(&models.User{ID: 1}, nil).Once()
	_, err = authService.RegisterUser("otheruser", "test@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, new(MockMailer), testSecret)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@example.com",
		Password: string(hashed),
	}

	// Login succeeds by verifying against the stored hash.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	got, err := authService.Authenticate(user.Email, "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	mockRepo.AssertExpectations(t)

	// Wrong password fails with the generic error.
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, err = authService.Authenticate(user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email fails with the same generic error.
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Authenticate("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// A malformed stored hash fails closed instead of crashing.
	broken := &models.User{ID: 2, Email: "broken@example.com", Password: "not-a-bcrypt-hash"}
	mockRepo.On("GetByEmail", broken.Email).Return(broken, nil).Once()
	_, err = authService.Authenticate(broken.Email, "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResetTokenRoundTrip(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, new(MockMailer), testSecret)

	user := &models.User{ID: 42, Username: "testuser", Email: "test@example.com"}

	token, err := authService.IssueResetToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	mockRepo.On("GetByID", uint(42)).Return(user, nil).Once()
	got, err := authService.VerifyResetToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyResetToken_Failures(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, new(MockMailer), testSecret)
	user := &models.User{ID: 42}

	// Expired token.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	_, err = authService.VerifyResetToken(expiredString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Token signed with a different key.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	foreignString, err := foreign.SignedString([]byte("some_other_key"))
	assert.NoError(t, err)
	_, err = authService.VerifyResetToken(foreignString)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Tampered payload.
	valid, err := authService.IssueResetToken(user)
	assert.NoError(t, err)
	parts := strings.Split(valid, ".")
	assert.Len(t, parts, 3)
	tampered := parts[0] + ".eyJ1c2VyX2lkIjo3LCJleHAiOjk5OTk5OTk5OTl9." + parts[2]
	_, err = authService.VerifyResetToken(tampered)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Garbage input.
	_, err = authService.VerifyResetToken("not.a.token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Valid token for a user that no longer exists.
	mockRepo.On("GetByID", uint(42)).Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.VerifyResetToken(valid)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockMailer := new(MockMailer)
	authService := services.NewAuthService(mockRepo, mockMailer, testSecret)

	user := &models.User{ID: 7, Username: "testuser", Email: "test@example.com"}

	// Known email: a reset link containing a verifiable token is mailed.
	var sentLink string
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	mockMailer.On("SendPasswordReset", user.Email, mock.AnythingOfType("string")).Return(nil).Once().
		Run(func(args mock.Arguments) {
			sentLink = args.String(1)
		})

	err := authService.RequestPasswordReset(user.Email, "http://localhost:8080")
	assert.NoError(t, err)
	assert.Contains(t, sentLink, "http://localhost:8080/reset_password/")

	token := strings.TrimPrefix(sentLink, "http://localhost:8080/reset_password/")
	mockRepo.On("GetByID", user.ID).Return(user, nil).Once()
	got, err := authService.VerifyResetToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	mockRepo.AssertExpectations(t)
	mockMailer.AssertExpectations(t)

	// Unknown email: same outcome for the caller, nothing is sent.
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	err = authService.RequestPasswordReset("nobody@example.com", "http://localhost:8080")
	assert.NoError(t, err)
	mockMailer.AssertNotCalled(t, "SendPasswordReset", "nobody@example.com", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ResetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, new(MockMailer), testSecret)

	oldHash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.DefaultCost)
	user := &models.User{ID: 3, Email: "test@example.com", Password: string(oldHash)}

	token, err := authService.IssueResetToken(user)
	assert.NoError(t, err)

	var updated *models.User
	mockRepo.On("GetByID", user.ID).Return(user, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once().
		Run(func(args mock.Arguments) {
			updated = args.Get(0).(*models.User)
		})

	err = authService.ResetPassword(token, "pw2")
	assert.NoError(t, err)
	assert.NotNil(t, updated)

	// Old password no longer verifies, the new one does.
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("pw1")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("pw2")))
	mockRepo.AssertExpectations(t)

	// An invalid token never reaches the repository.
	err = authService.ResetPassword("bogus.token.value", "pw3")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	mockRepo.AssertExpectations(t)
}
