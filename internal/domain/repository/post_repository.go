package repository

import (
	"context"

	"miniblog/internal/domain/entity"
	"miniblog/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for post persistence.
var (
	// ErrPostNotFound is returned when no post matches the lookup.
	ErrPostNotFound = errors.New("post not found")
	// ErrSlugTaken is returned when the unique slug index rejects an update.
	ErrSlugTaken = errors.New("slug already taken")
)

// PostRepository defines the operations for post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// FindPublishedBySlug retrieves a published post, with its author name, by slug.
	FindPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error)

	// ListPublished lists published posts with their author names, newest first.
	ListPublished(ctx context.Context) ([]*entity.Post, error)

	// ListByAuthor lists every post of the author, newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error)
}
