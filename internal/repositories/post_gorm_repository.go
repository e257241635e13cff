package repositories

import (
	"errors"
	"fmt"

	"blogapp/internal/models"

	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a single post with its author preloaded.
func (r *GORMPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by ID %d: %w", id, err)
	}
	return &post, nil
}

// ListPage returns page number `page` (1-based) of all posts ordered by
// descending creation time. Pages beyond the last are returned empty.
func (r *GORMPostRepository) ListPage(page int) (*Page, error) {
	return r.paginate(func(db *gorm.DB) *gorm.DB { return db }, page)
}

// ListPageByUser returns a page of posts authored by the given user.
func (r *GORMPostRepository) ListPageByUser(userID uint, page int) (*Page, error) {
	return r.paginate(func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}, page)
}

func (r *GORMPostRepository) paginate(filter func(*gorm.DB) *gorm.DB, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := filter(r.db.Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []models.Post
	offset := (page - 1) * PerPage
	err := filter(r.db.Model(&models.Post{})).Preload("Author").
		Order("date_posted DESC, id DESC").
		Offset(offset).
		Limit(PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts page %d: %w", page, err)
	}

	return &Page{
		Items:   posts,
		Number:  page,
		PerPage: PerPage,
		Total:   total,
		HasNext: int64(offset+len(posts)) < total,
		HasPrev: page > 1 && total > 0,
	}, nil
}

// Update persists changes to an existing post inside a transaction.
func (r *GORMPostRepository) Update(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{"title": post.Title, "content": post.Content})
		if res.Error != nil {
			return fmt.Errorf("failed to update post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes a post by its ID.
func (r *GORMPostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
