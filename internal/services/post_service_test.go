package services_test

import (
	"testing"

	"blogapp/internal/models"
	"blogapp/internal/repositories"
	"blogapp/internal/services"

	"github.com/stretchr/testify/assert"
)

func newPostServiceUnderTest(t *testing.T) (*services.PostService, *models.User, *models.User) {
	t.Helper()
	userRepo := repositories.NewMockUserRepository()
	postRepo := repositories.NewMockPostRepository()

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	bob := &models.User{Username: "bob", Email: "bob@example.com"}
	assert.NoError(t, userRepo.Create(alice))
	assert.NoError(t, userRepo.Create(bob))

	return services.NewPostService(postRepo, userRepo), alice, bob
}

func TestPostService_CreateAndGet(t *testing.T) {
	svc, alice, _ := newPostServiceUnderTest(t)

	post, err := svc.CreatePost(alice, "First", "Hello")
	assert.NoError(t, err)
	assert.Equal(t, alice.ID, post.UserID)

	got, err := svc.GetPost(post.ID)
	assert.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	_, err = svc.GetPost(9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPostService_AuthorOnlyMutations(t *testing.T) {
	svc, alice, bob := newPostServiceUnderTest(t)

	post, err := svc.CreatePost(alice, "Mine", "Content")
	assert.NoError(t, err)

	// A non-author gets ErrForbidden no matter how valid the input is.
	_, err = svc.UpdatePost(bob.ID, post.ID, "Hijacked", "Content")
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = svc.DeletePost(bob.ID, post.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The author may do both.
	updated, err := svc.UpdatePost(alice.ID, post.ID, "Renamed", "New content")
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	err = svc.DeletePost(alice.ID, post.ID)
	assert.NoError(t, err)

	_, err = svc.GetPost(post.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPostService_ListPostsByUsername(t *testing.T) {
	svc, alice, bob := newPostServiceUnderTest(t)

	for i := 0; i < 3; i++ {
		_, err := svc.CreatePost(alice, "Post", "Content")
		assert.NoError(t, err)
	}
	_, err := svc.CreatePost(bob, "Bob's", "Content")
	assert.NoError(t, err)

	user, page, err := svc.ListPostsByUsername("alice", 1)
	assert.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Len(t, page.Items, 3)
	for _, p := range page.Items {
		assert.Equal(t, alice.ID, p.UserID)
	}

	_, _, err = svc.ListPostsByUsername("nobody", 1)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
