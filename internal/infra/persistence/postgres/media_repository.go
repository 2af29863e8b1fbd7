package postgres

import (
	"context"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository is the constructor for mediaRepository.
func NewMediaRepository(db *gorm.DB) repository.MediaRepository {
	return &mediaRepository{db: db}
}

// Create records the metadata of an object already written to the bucket.
func (repo *mediaRepository) Create(ctx context.Context, media *entity.Media) error {
	id := media.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	mediaM := &model.MediaModel{
		ID:        id,
		OwnerID:   media.OwnerID,
		PostID:    media.PostID,
		Path:      media.Path,
		MimeType:  media.MimeType,
		SizeBytes: media.SizeBytes,
		Width:     media.Width,
		Height:    media.Height,
		CreatedAt: media.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(mediaM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewStorageError(err, "failed to create media")
	}

	media.ID = mediaM.ID
	media.CreatedAt = mediaM.CreatedAt

	return nil
}
