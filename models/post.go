package models

import (
	"regexp"
	"strings"
	"time"
)

// Post is the single content entity: a blog article with publication state.
// JSON field names match the public API contract (camelCase).
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"not null" json:"title"`
	Excerpt     string     `gorm:"not null" json:"excerpt"`
	Content     string     `gorm:"not null" json:"content"`
	CoverImage  string     `gorm:"default:''" json:"coverImage"`
	Author      string     `gorm:"not null" json:"author"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Published   bool       `gorm:"default:false" json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostPatch is a partial update: one optional slot per mutable attribute.
// A nil field means "leave unchanged". ID and CreatedAt are not patchable.
type PostPatch struct {
	Slug       *string   `json:"slug"`
	Title      *string   `json:"title"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Author     *string   `json:"author"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}

var slugInvalidRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a slug: lowercase, runs of non-alphanumeric characters
// collapsed to a single hyphen, leading/trailing hyphens stripped.
// Normalization is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
