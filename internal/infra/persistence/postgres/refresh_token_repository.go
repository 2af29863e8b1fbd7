package postgres

import (
	"context"
	"time"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// refreshTokenRepository implements the domain.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create persists a new refresh token, representing a user session.
func (repo *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	tokenM := fromRefreshTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to create refresh token")
	}

	// Update the entity with generated values
	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByTokenID retrieves a refresh token record by the jti of the signed token.
// Revoked and expired records are returned as-is; the caller decides what they mean.
func (repo *refreshTokenRepository) FindByTokenID(ctx context.Context, tokenID uuid.UUID) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	if err := repo.db.WithContext(ctx).Where("jti = ?", tokenID).First(&tokenM).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, domainerrors.NewStorageError(err, "failed to find refresh token")
	}

	return toRefreshTokenDomain(&tokenM), nil
}

// RevokeIfActive marks the record revoked with a conditional UPDATE so that only one caller wins.
func (repo *refreshTokenRepository) RevokeIfActive(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("jti = ? AND revoked_at IS NULL", tokenID).
		Update("revoked_at", revokedAt)
	if result.Error != nil {
		return domainerrors.NewStorageError(result.Error, "failed to revoke refresh token")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing changed: either someone else revoked it first or it never existed.
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("jti = ?", tokenID).
		Count(&count).Error; err != nil {
		return domainerrors.NewStorageError(err, "failed to check refresh token")
	}
	if count == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return repository.ErrRefreshTokenAlreadyRevoked
}

// RevokeAllByUserID revokes every still-live session of the user.
func (repo *refreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID uuid.UUID, revokedAt time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", revokedAt)
	if result.Error != nil {
		return 0, domainerrors.NewStorageError(result.Error, "failed to revoke user refresh tokens")
	}

	return result.RowsAffected, nil
}

// FindActiveByUserID retrieves the unrevoked, unexpired sessions of a user, newest first.
// It reads from the primary so a session created or revoked a moment ago is reflected.
func (repo *refreshTokenRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) ([]*entity.RefreshToken, error) {
	var tokenModels []*model.RefreshTokenModel
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&tokenModels).Error; err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to list refresh tokens")
	}

	tokens := make([]*entity.RefreshToken, 0, len(tokenModels))
	for _, tokenM := range tokenModels {
		tokens = append(tokens, toRefreshTokenDomain(tokenM))
	}

	return tokens, nil
}

// --- Mapper Functions ---

// toRefreshTokenDomain converts a GORM RefreshTokenModel to a domain RefreshToken entity.
func toRefreshTokenDomain(data *model.RefreshTokenModel) *entity.RefreshToken {
	if data == nil {
		return nil
	}

	return &entity.RefreshToken{
		ID:          data.ID,
		TokenID:     data.TokenID,
		UserID:      data.UserID,
		TokenDigest: data.TokenDigest,
		ExpiresAt:   data.ExpiresAt,
		RevokedAt:   data.RevokedAt,
		CreatedAt:   data.CreatedAt,
	}
}

// fromRefreshTokenDomain converts a domain RefreshToken entity to a GORM RefreshTokenModel.
func fromRefreshTokenDomain(data *entity.RefreshToken) *model.RefreshTokenModel {
	if data == nil {
		return nil
	}

	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &model.RefreshTokenModel{
		ID:          id,
		TokenID:     data.TokenID,
		UserID:      data.UserID,
		TokenDigest: data.TokenDigest,
		ExpiresAt:   data.ExpiresAt,
		RevokedAt:   data.RevokedAt,
		CreatedAt:   data.CreatedAt,
	}
}
