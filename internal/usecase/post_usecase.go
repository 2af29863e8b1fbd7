package usecase

import (
	"context"

	"miniblog/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePostInput defines the data required to create a draft.
type CreatePostInput struct {
	Title   string
	Content string
}

// UpdatePostInput carries optional changes; nil fields are left untouched.
type UpdatePostInput struct {
	Title   *string
	Content *string
}

// PostUsecase defines post authoring and public reading.
type PostUsecase interface {
	Create(ctx context.Context, identity entity.Identity, input CreatePostInput) (*entity.Post, error)
	Update(ctx context.Context, identity entity.Identity, postID uuid.UUID, input UpdatePostInput) (*entity.Post, error)
	Delete(ctx context.Context, identity entity.Identity, postID uuid.UUID) error

	// Publish is idempotent: publishing a published post returns it unchanged.
	Publish(ctx context.Context, identity entity.Identity, postID uuid.UUID) (*entity.Post, error)

	ListMine(ctx context.Context, identity entity.Identity) ([]*entity.Post, error)
	GetMine(ctx context.Context, identity entity.Identity, postID uuid.UUID) (*entity.Post, error)

	ListPublished(ctx context.Context) ([]*entity.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error)
}
