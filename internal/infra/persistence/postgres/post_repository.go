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

const postWithAuthorColumns = "posts.*, users.display_name AS author_name"

// postRepository implements the domain.PostRepository interface using GORM.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postM := fromPostDomain(post)

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrSlugTaken
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewStorageError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

// Update writes the mutable columns of an existing post.
func (repo *postRepository) Update(ctx context.Context, post *entity.Post) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", post.ID).
		Updates(map[string]any{
			"title":        post.Title,
			"content":      post.Content,
			"status":       string(post.Status),
			"slug":         post.Slug,
			"published_at": post.PublishedAt,
			"updated_at":   post.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrSlugTaken
		}

		return domainerrors.NewStorageError(result.Error, "failed to update post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

func (repo *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PostModel{})
	if result.Error != nil {
		return domainerrors.NewStorageError(result.Error, "failed to delete post")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var postM model.PostModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&postM).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrPostNotFound
		}

		return nil, domainerrors.NewStorageError(err, "failed to find post")
	}

	return toPostDomain(&postM, ""), nil
}

// FindPublishedBySlug retrieves a published post joined with its author's display name.
func (repo *postRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	var rows []model.PostWithAuthorModel
	if err := repo.publishedQuery(ctx).
		Where("posts.slug = ?", slug).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to find post by slug")
	}
	if len(rows) == 0 {
		return nil, repository.ErrPostNotFound
	}

	return toPostDomain(&rows[0].PostModel, rows[0].AuthorName), nil
}

// ListPublished lists every published post, newest first.
func (repo *postRepository) ListPublished(ctx context.Context) ([]*entity.Post, error) {
	var rows []model.PostWithAuthorModel
	if err := repo.publishedQuery(ctx).
		Order("posts.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to list published posts")
	}

	posts := make([]*entity.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, toPostDomain(&rows[i].PostModel, rows[i].AuthorName))
	}

	return posts, nil
}

// ListByAuthor lists drafts and published posts of one author, newest first.
func (repo *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error) {
	var postModels []*model.PostModel
	if err := repo.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&postModels).Error; err != nil {
		return nil, domainerrors.NewStorageError(err, "failed to list author posts")
	}

	posts := make([]*entity.Post, 0, len(postModels))
	for _, postM := range postModels {
		posts = append(posts, toPostDomain(postM, ""))
	}

	return posts, nil
}

func (repo *postRepository) publishedQuery(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).
		Table(model.PostModel{}.TableName()).
		Select(postWithAuthorColumns).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.status = ?", string(entity.PostStatusPublished))
}

// --- Mapper Functions ---

func toPostDomain(data *model.PostModel, authorName string) *entity.Post {
	if data == nil {
		return nil
	}

	return &entity.Post{
		ID:          data.ID,
		AuthorID:    data.AuthorID,
		AuthorName:  authorName,
		Title:       data.Title,
		Content:     data.Content,
		Status:      entity.PostStatus(data.Status),
		Slug:        data.Slug,
		PublishedAt: data.PublishedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromPostDomain(data *entity.Post) *model.PostModel {
	if data == nil {
		return nil
	}

	id := data.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	status := data.Status
	if status == "" {
		status = entity.PostStatusDraft
	}

	return &model.PostModel{
		ID:          id,
		AuthorID:    data.AuthorID,
		Title:       data.Title,
		Content:     data.Content,
		Status:      string(status),
		Slug:        data.Slug,
		PublishedAt: data.PublishedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
