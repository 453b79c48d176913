// Package repository implements durable CRUD for the application's entities.
package repository

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"inkwell/models"

	"gorm.io/gorm"
)

var errDatabaseUnavailable = errors.New("database unavailable")

// PostRepository defines the interface for post data operations.
//
// The list operations are fail-open by contract: on a storage failure they
// log the error and return an empty slice so public pages never hard-fail on
// a transient database blip. Write operations propagate their errors.
type PostRepository interface {
	ListPublished(ctx context.Context, limit int) []*models.Post
	ListAll(ctx context.Context) []*models.Post
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id string) (*models.Post, error)
}

// postRepository implements PostRepository on GORM. A nil db handle puts the
// repository into degraded mode: reads return empty, writes fail.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// parsePostID validates the identifier before any database round trip.
func parsePostID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil || n == 0 {
		return 0, models.NewInvalidIDError(id)
	}
	return uint(n), nil
}

// normalize trims the free-text fields and canonicalizes the slug.
func normalize(post *models.Post) {
	post.Slug = models.Slugify(post.Slug)
	post.Title = strings.TrimSpace(post.Title)
	post.Excerpt = strings.TrimSpace(post.Excerpt)
	post.Author = strings.TrimSpace(post.Author)
}

func validateRequired(post *models.Post) error {
	var missing []string
	if post.Slug == "" {
		missing = append(missing, "slug")
	}
	if post.Title == "" {
		missing = append(missing, "title")
	}
	if post.Excerpt == "" {
		missing = append(missing, "excerpt")
	}
	if post.Content == "" {
		missing = append(missing, "content")
	}
	if post.Author == "" {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return models.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// writeError translates GORM errors into the application taxonomy.
func writeError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("a post with this slug already exists")
	}
	return models.NewStorageError(err)
}

func (r *postRepository) ListPublished(ctx context.Context, limit int) []*models.Post {
	posts := make([]*models.Post, 0)
	if r.db == nil {
		return posts
	}

	q := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("published_at DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&posts).Error; err != nil {
		slog.Error("failed to list published posts", "error", err)
		return make([]*models.Post, 0)
	}
	return posts
}

func (r *postRepository) ListAll(ctx context.Context) []*models.Post {
	posts := make([]*models.Post, 0)
	if r.db == nil {
		return posts
	}

	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		slog.Error("failed to list posts", "error", err)
		return make([]*models.Post, 0)
	}
	return posts
}

// GetByID is fail-open like the list reads: a storage failure is logged and
// reported as not-found rather than surfacing a 500 on a public page.
func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	if r.db == nil {
		return nil, models.NewNotFoundError("post", id)
	}

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to load post", "id", id, "error", err)
		}
		return nil, models.NewNotFoundError("post", id)
	}
	return &post, nil
}

// GetBySlug resolves a published post by its exact slug. Drafts are not
// resolvable through this path, and storage failures read as not-found.
func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if r.db == nil {
		return nil, models.NewNotFoundError("post", slug)
	}

	var post models.Post
	err := r.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to load post by slug", "slug", slug, "error", err)
		}
		return nil, models.NewNotFoundError("post", slug)
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	normalize(post)
	if err := validateRequired(post); err != nil {
		return nil, err
	}
	if r.db == nil {
		return nil, models.NewStorageError(errDatabaseUnavailable)
	}

	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Published && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, writeError(err)
	}
	return post, nil
}

func (r *postRepository) Update(ctx context.Context, id string, patch *models.PostPatch) (*models.Post, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	if r.db == nil {
		return nil, models.NewStorageError(errDatabaseUnavailable)
	}

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, models.NewStorageError(err)
	}

	// Field-by-field application; a patch may never empty a required field.
	if patch.Slug != nil {
		slug := models.Slugify(*patch.Slug)
		if slug == "" {
			return nil, models.NewValidationError("slug must not be empty")
		}
		post.Slug = slug
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, models.NewValidationError("title must not be empty")
		}
		post.Title = title
	}
	if patch.Excerpt != nil {
		excerpt := strings.TrimSpace(*patch.Excerpt)
		if excerpt == "" {
			return nil, models.NewValidationError("excerpt must not be empty")
		}
		post.Excerpt = excerpt
	}
	if patch.Content != nil {
		if *patch.Content == "" {
			return nil, models.NewValidationError("content must not be empty")
		}
		post.Content = *patch.Content
	}
	if patch.CoverImage != nil {
		post.CoverImage = *patch.CoverImage
	}
	if patch.Author != nil {
		author := strings.TrimSpace(*patch.Author)
		if author == "" {
			return nil, models.NewValidationError("author must not be empty")
		}
		post.Author = author
	}
	if patch.Tags != nil {
		post.Tags = *patch.Tags
	}
	if patch.Published != nil {
		// First publish wins: PublishedAt is stamped once, on the first
		// transition to published, and is never cleared or reset afterwards
		// (unpublishing keeps the original publish timestamp).
		if *patch.Published && post.PublishedAt == nil {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
		post.Published = *patch.Published
	}

	if err := r.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, writeError(err)
	}
	return &post, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) (*models.Post, error) {
	postID, err := parsePostID(id)
	if err != nil {
		return nil, err
	}
	if r.db == nil {
		return nil, models.NewStorageError(errDatabaseUnavailable)
	}

	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, models.NewStorageError(err)
	}

	res := r.db.WithContext(ctx).Delete(&models.Post{}, postID)
	if res.Error != nil {
		return nil, models.NewStorageError(res.Error)
	}
	// A competing delete may have won between the snapshot read and here.
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("post", id)
	}
	return &post, nil
}
