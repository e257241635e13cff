package services

import (
	"errors"
	"fmt"

	"blogapp/internal/models"
	"blogapp/internal/repositories"
)

// PostService handles business logic for blog posts, including the
// author-only rule on mutations.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// CreatePost creates a post owned by the given user.
func (s *PostService) CreatePost(author *models.User, title, content string) (*models.Post, error) {
	post := &models.Post{
		Title:   title,
		Content: content,
		UserID:  author.ID,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost retrieves a single post by its numeric ID.
func (s *PostService) GetPost(id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// ListPosts returns one page of all posts, newest first.
func (s *PostService) ListPosts(page int) (*repositories.Page, error) {
	return s.postRepo.ListPage(page)
}

// ListPostsByUsername returns one page of posts by the named author, or
// ErrNotFound when no such user exists.
func (s *PostService) ListPostsByUsername(username string, page int) (*models.User, *repositories.Page, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	posts, err := s.postRepo.ListPageByUser(user.ID, page)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

// UpdatePost rewrites title and content. Only the author may update;
// anyone else gets ErrForbidden no matter how valid the input is.
func (s *PostService) UpdatePost(actorID, postID uint, title, content string) (*models.Post, error) {
	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, ErrForbidden
	}

	post.Title = title
	post.Content = content
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post. Same author-only rule as UpdatePost.
func (s *PostService) DeletePost(actorID, postID uint) error {
	post, err := s.GetPost(postID)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return ErrForbidden
	}
	if err := s.postRepo.Delete(post.ID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
