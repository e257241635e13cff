package repositories

import "blogapp/internal/models"

// PerPage is the fixed page size for post listings.
const PerPage = 5

// Page is one page of posts ordered by descending creation time.
type Page struct {
	Items   []models.Post
	Number  int
	PerPage int
	Total   int64
	HasNext bool
	HasPrev bool
}

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	ListPage(page int) (*Page, error)
	ListPageByUser(userID uint, page int) (*Page, error)
	Update(post *models.Post) error
	Delete(id uint) error
}
