package entity

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	// PostStatusDraft marks a post visible only to its author.
	PostStatusDraft PostStatus = "DRAFT"
	// PostStatusPublished marks a post listed in the public feed.
	PostStatusPublished PostStatus = "PUBLISHED"
)

// Post is a blog article owned by a single author.
type Post struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	AuthorName  string // Display name of the author, filled on public reads.
	Title       string
	Content     string // Serialized rich-text document.
	Status      PostStatus
	Slug        *string // Assigned on first publish.
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPublished reports whether the post is publicly visible.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsOwnedBy reports whether the given user authored the post.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}
