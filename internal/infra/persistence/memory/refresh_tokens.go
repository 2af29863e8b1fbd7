package memory

import (
	"context"
	"time"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"

	"github.com/google/uuid"
)

type refreshTokenRepository struct {
	store *Store
	tx    *state
}

// NewRefreshTokenRepository returns a RefreshTokenRepository backed by the store.
func NewRefreshTokenRepository(store *Store) repository.RefreshTokenRepository {
	return &refreshTokenRepository{store: store}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		if token.ID == uuid.Nil {
			token.ID = uuid.New()
		}
		token.CreatedAt = r.store.now()
		st.tokens[token.TokenID] = cloneToken(token)

		return nil
	})
}

func (r *refreshTokenRepository) FindByTokenID(ctx context.Context, tokenID uuid.UUID) (*entity.RefreshToken, error) {
	var found *entity.RefreshToken
	err := r.store.run(ctx, r.tx, func(st *state) error {
		t, ok := st.tokens[tokenID]
		if !ok {
			return repository.ErrRefreshTokenNotFound
		}
		found = cloneToken(t)

		return nil
	})

	return found, err
}

func (r *refreshTokenRepository) RevokeIfActive(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		t, ok := st.tokens[tokenID]
		if !ok {
			return repository.ErrRefreshTokenNotFound
		}
		if t.RevokedAt != nil {
			return repository.ErrRefreshTokenAlreadyRevoked
		}
		at := revokedAt
		t.RevokedAt = &at

		return nil
	})
}

func (r *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, revokedAt time.Time) (int64, error) {
	var count int64
	err := r.store.run(ctx, r.tx, func(st *state) error {
		for _, t := range st.tokens {
			if t.UserID != userID || t.RevokedAt != nil {
				continue
			}
			at := revokedAt
			t.RevokedAt = &at
			count++
		}

		return nil
	})

	return count, err
}

func (r *refreshTokenRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.RefreshToken, error) {
	var tokens []*entity.RefreshToken
	err := r.store.run(ctx, r.tx, func(st *state) error {
		for _, t := range st.tokens {
			if t.UserID == userID && t.IsActive(now) {
				tokens = append(tokens, cloneToken(t))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(tokens,
		func(t *entity.RefreshToken) time.Time { return t.CreatedAt },
		func(t *entity.RefreshToken) uuid.UUID { return t.ID })

	return tokens, nil
}
