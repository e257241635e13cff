package handlers

import (
	"errors"
	"fmt"
	"log"

	"blogapp/internal/models"
	"blogapp/internal/services"
	"blogapp/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles the public pages and the post CRUD routes.
type PostHandler struct {
	postService *services.PostService
	sessions    *session.Manager
	validate    *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, sessions *session.Manager) *PostHandler {
	return &PostHandler{
		postService: postService,
		sessions:    sessions,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers post routes. guard protects the routes that
// require a logged-in user.
func (h *PostHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Get("/", h.Home)
	router.Get("/home", h.Home)
	router.Get("/about", h.About)
	router.Get("/post/new", guard, h.NewPostPage)
	router.Post("/post/new", guard, h.HandleNewPost)
	router.Get("/post/:id<int>", h.PostPage)
	router.Get("/post/:id<int>/update", guard, h.UpdatePostPage)
	router.Post("/post/:id<int>/update", guard, h.HandleUpdatePost)
	router.Post("/post/:id<int>/delete", guard, h.HandleDeletePost)
	router.Get("/user/:username", h.UserPosts)
}

// Home renders the paginated post listing.
func (h *PostHandler) Home(c *fiber.Ctx) error {
	page, err := h.postService.ListPosts(c.QueryInt("page", 1))
	if err != nil {
		log.Printf("Error listing posts: %v", err)
		return fiber.ErrInternalServerError
	}
	return render(c, h.sessions, "home", fiber.Map{"Page": page})
}

// About renders the static about page.
func (h *PostHandler) About(c *fiber.Ctx) error {
	return render(c, h.sessions, "about", fiber.Map{"Title": "About"})
}

// PostForm represents the shared new/update post form fields.
type PostForm struct {
	Title   string `form:"title" validate:"required,max=100"`
	Content string `form:"content" validate:"required"`
}

// NewPostPage renders the empty post form.
func (h *PostHandler) NewPostPage(c *fiber.Ctx) error {
	return render(c, h.sessions, "create_post", fiber.Map{
		"Title":  "New Post",
		"Legend": "New Post",
	})
}

// HandleNewPost creates a post owned by the current user.
func (h *PostHandler) HandleNewPost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	var form PostForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "create_post", fiber.Map{
			"Title":  "New Post",
			"Legend": "New Post",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "create_post", fiber.Map{
			"Title":  "New Post",
			"Legend": "New Post",
			"Form":   form,
			"Errors": validationMessages(err),
		})
	}

	if _, err := h.postService.CreatePost(user, form.Title, form.Content); err != nil {
		log.Printf("Error creating post: %v", err)
		return fiber.ErrInternalServerError
	}

	h.sessions.Flash(c, "success", "Your post has been created.")
	return c.Redirect("/home")
}

// PostPage renders one post.
func (h *PostHandler) PostPage(c *fiber.Ctx) error {
	post, err := h.getPost(c)
	if err != nil {
		return err
	}
	return render(c, h.sessions, "post", fiber.Map{
		"Title": post.Title,
		"Post":  post,
	})
}

// UpdatePostPage renders the post form pre-filled with the current content.
// Only the author may see it.
func (h *PostHandler) UpdatePostPage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}
	post, err := h.getPost(c)
	if err != nil {
		return err
	}
	if post.UserID != user.ID {
		return fiber.ErrForbidden
	}
	return render(c, h.sessions, "create_post", fiber.Map{
		"Title":  "Update Post",
		"Legend": "Update Post",
		"Form":   PostForm{Title: post.Title, Content: post.Content},
	})
}

// HandleUpdatePost rewrites a post if the current user is the author.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	var form PostForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, h.sessions, "create_post", fiber.Map{
			"Title":  "Update Post",
			"Legend": "Update Post",
			"Errors": map[string]string{"Form": "Invalid form submission"},
		})
	}
	if err := h.validate.Struct(form); err != nil {
		return render(c, h.sessions, "create_post", fiber.Map{
			"Title":  "Update Post",
			"Legend": "Update Post",
			"Form":   form,
			"Errors": validationMessages(err),
		})
	}

	post, err := h.postService.UpdatePost(user.ID, uint(id), form.Title, form.Content)
	if err != nil {
		return h.mutationError(err)
	}

	h.sessions.Flash(c, "success", "Your post has been updated.")
	return c.Redirect(fmt.Sprintf("/post/%d", post.ID))
}

// HandleDeletePost removes a post if the current user is the author.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	if err := h.postService.DeletePost(user.ID, uint(id)); err != nil {
		return h.mutationError(err)
	}

	h.sessions.Flash(c, "success", "Your post has been deleted.")
	return c.Redirect("/home")
}

// UserPosts renders the paginated listing of one author's posts.
func (h *PostHandler) UserPosts(c *fiber.Ctx) error {
	username := c.Params("username")
	user, page, err := h.postService.ListPostsByUsername(username, c.QueryInt("page", 1))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fiber.ErrNotFound
		}
		log.Printf("Error listing posts for %s: %v", username, err)
		return fiber.ErrInternalServerError
	}
	return render(c, h.sessions, "user_posts", fiber.Map{
		"Title":  user.Username,
		"Author": user,
		"Page":   page,
	})
}

func (h *PostHandler) getPost(c *fiber.Ctx) (*models.Post, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, fiber.ErrNotFound
	}
	post, err := h.postService.GetPost(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, fiber.ErrNotFound
		}
		log.Printf("Error loading post %d: %v", id, err)
		return nil, fiber.ErrInternalServerError
	}
	return post, nil
}

func (h *PostHandler) mutationError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.ErrNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.ErrForbidden
	default:
		log.Printf("Error mutating post: %v", err)
		return fiber.ErrInternalServerError
	}
}
