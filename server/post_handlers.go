package server

import (
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest carries the create form. Slug, title, excerpt, content
// and author are required; the rest default.
type CreatePostRequest struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage"`
	Author     string   `json:"author"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// GetAllPosts handles GET /api/posts — every post including drafts, newest
// first, for the admin dashboard listing.
func (s *Server) GetAllPosts(c *fiber.Ctx) error {
	posts := s.postRepo.ListAll(c.Context())
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// GetPublishedPosts handles GET /api/posts/published?limit=N — the public
// reading feed.
func (s *Server) GetPublishedPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	posts := s.postRepo.ListPublished(c.Context(), limit)
	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// GetPostBySlug handles GET /api/posts/slug/:slug — published posts only.
func (s *Server) GetPostBySlug(c *fiber.Ctx) error {
	post, err := s.postRepo.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	post := &models.Post{
		Slug:       req.Slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Author:     req.Author,
		Tags:       req.Tags,
		Published:  req.Published,
	}

	created, err := s.postRepo.Create(c.Context(), post)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"post":    created,
	})
}

// UpdatePost handles PUT /api/posts/:id with a partial patch body.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var patch models.PostPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	updated, err := s.postRepo.Update(c.Context(), c.Params("id"), &patch)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"post":    updated,
	})
}

// DeletePost handles DELETE /api/posts/:id — hard delete, non-recoverable.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	deleted, err := s.postRepo.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
		"post":    deleted,
	})
}
