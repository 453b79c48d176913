package server

import (
	"inkwell/models"

	"github.com/gofiber/fiber/v2"
)

// GenerateContent handles POST /api/generate — drafts a full post via the
// completion API for the admin create form.
func (s *Server) GenerateContent(c *fiber.Ctx) error {
	var req struct {
		Topic string `json:"topic"`
		Style string `json:"style"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.Topic == "" {
		return fail(c, models.NewValidationError("Topic is required"))
	}
	if !s.ai.Enabled() {
		return fail(c, models.NewValidationError("Content generation is not configured"))
	}

	content, err := s.ai.GenerateBlogContent(c.Context(), req.Topic, req.Style)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"content": content,
	})
}

// GenerateExcerpt handles POST /api/generate/excerpt — summarizes draft
// content into a short excerpt.
func (s *Server) GenerateExcerpt(c *fiber.Ctx) error {
	var req struct {
		Content   string `json:"content"`
		MaxLength int    `json:"maxLength"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}
	if req.Content == "" {
		return fail(c, models.NewValidationError("Content is required"))
	}
	if !s.ai.Enabled() {
		return fail(c, models.NewValidationError("Content generation is not configured"))
	}

	excerpt, err := s.ai.GenerateExcerpt(c.Context(), req.Content, req.MaxLength)
	if err != nil {
		return fail(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"excerpt": excerpt,
	})
}
