package services

import (
	"fmt"
	"mime/multipart"

	"blogapp/internal/models"
	"blogapp/internal/pictures"
	"blogapp/internal/repositories"
)

// AccountService handles profile updates, including the optional picture
// upload.
type AccountService struct {
	userRepo repositories.UserRepository
	pictures *pictures.Store
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repositories.UserRepository, pictureStore *pictures.Store) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		pictures: pictureStore,
	}
}

// UpdateProfile writes the new username and email and, when a picture was
// uploaded, stores its thumbnail and records the generated filename.
func (s *AccountService) UpdateProfile(user *models.User, username, email string, picture *multipart.FileHeader) error {
	if picture != nil {
		f, err := picture.Open()
		if err != nil {
			return fmt.Errorf("failed to open uploaded picture: %w", err)
		}
		defer f.Close()

		name, err := s.pictures.Save(f, picture.Filename)
		if err != nil {
			return err
		}
		user.ImageFile = name
	}

	user.Username = username
	user.Email = email
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
