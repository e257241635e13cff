package repositories

import (
	"sort"
	"sync"

	"blogapp/internal/models"
)

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts  map[uint]models.Post
	nextID uint
	mu     sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts:  make(map[uint]models.Post),
		nextID: 1,
	}
}

// Create adds a new post, assigning the next numeric ID.
func (r *MockPostRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == 0 {
		post.ID = r.nextID
		r.nextID++
	}
	r.posts[post.ID] = *post
	return nil
}

// GetByID returns a post by its ID.
func (r *MockPostRepository) GetByID(id uint) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &post, nil
}

// ListPage returns one page of all posts, newest first.
func (r *MockPostRepository) ListPage(page int) (*Page, error) {
	return r.paginate(func(models.Post) bool { return true }, page)
}

// ListPageByUser returns one page of posts authored by the given user.
func (r *MockPostRepository) ListPageByUser(userID uint, page int) (*Page, error) {
	return r.paginate(func(p models.Post) bool { return p.UserID == userID }, page)
}

func (r *MockPostRepository) paginate(keep func(models.Post) bool, page int) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}

	all := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if keep(p) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DatePosted.Equal(all[j].DatePosted) {
			return all[i].ID > all[j].ID
		}
		return all[i].DatePosted.After(all[j].DatePosted)
	})

	total := int64(len(all))
	offset := (page - 1) * PerPage
	items := []models.Post{}
	if offset < len(all) {
		end := offset + PerPage
		if end > len(all) {
			end = len(all)
		}
		items = all[offset:end]
	}

	return &Page{
		Items:   items,
		Number:  page,
		PerPage: PerPage,
		Total:   total,
		HasNext: int64(offset+len(items)) < total,
		HasPrev: page > 1 && total > 0,
	}, nil
}

// Update modifies an existing post.
func (r *MockPostRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = post.Title
	existing.Content = post.Content
	r.posts[post.ID] = existing
	return nil
}

// Delete removes a post by its ID.
func (r *MockPostRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}
