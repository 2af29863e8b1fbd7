package repository

import (
	"context"

	"miniblog/internal/domain/entity"
)

// MediaRepository defines the operations for uploaded media metadata.
type MediaRepository interface {
	Create(ctx context.Context, media *entity.Media) error
}
