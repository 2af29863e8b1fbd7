package memory

import (
	"context"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"

	"github.com/google/uuid"
)

type mediaRepository struct {
	store *Store
	tx    *state
}

// NewMediaRepository returns a MediaRepository backed by the store.
func NewMediaRepository(store *Store) repository.MediaRepository {
	return &mediaRepository{store: store}
}

func (r *mediaRepository) Create(ctx context.Context, media *entity.Media) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		if media.PostID != nil {
			if _, ok := st.posts[*media.PostID]; !ok {
				return repository.ErrPostNotFound
			}
		}
		if media.ID == uuid.Nil {
			media.ID = uuid.New()
		}
		media.CreatedAt = r.store.now()
		cp := *media
		st.media[media.ID] = &cp

		return nil
	})
}
