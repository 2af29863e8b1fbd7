package impl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	deliverycontext "miniblog/internal/delivery/context"
	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/errors"
	"miniblog/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const maxTitleLength = 120

// postService implements the PostUsecase interface.
type postService struct {
	txManager repository.TransactionManager
	postRepo  repository.PostRepository
	logger    *slog.Logger
	now       func() time.Time
}

// PostServiceParams holds dependencies for PostService, injected by Fx.
type PostServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PostRepo  repository.PostRepository
	Logger    *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		txManager: params.TxManager,
		postRepo:  params.PostRepo,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create stores a new draft owned by the caller.
func (srv *postService) Create(ctx context.Context, identity entity.Identity, input usecase.CreatePostInput) (*entity.Post, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	post := &entity.Post{
		AuthorID: identity.UserID,
		Title:    input.Title,
		Content:  input.Content,
		Status:   entity.PostStatusDraft,
	}
	if err := srv.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrIdentityNotFound
		}

		return nil, errors.Wrap(err, "failed to create post")
	}

	srv.log(ctx).Info("Post created",
		slog.String("postID", post.ID.String()),
		slog.String("authorID", identity.UserID.String()),
	)

	return post, nil
}

// Update applies the non-nil fields of input to a post owned by the caller.
func (srv *postService) Update(ctx context.Context, identity entity.Identity, postID uuid.UUID, input usecase.UpdatePostInput) (*entity.Post, error) {
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
	}

	var updated *entity.Post
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		post, err := findOwnedPost(ctx, postRepo, identity, postID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			post.Title = *input.Title
		}
		if input.Content != nil {
			post.Content = *input.Content
		}
		post.UpdatedAt = srv.now()

		if err := postRepo.Update(ctx, post); err != nil {
			return mapPostWriteError(err, "failed to update post")
		}
		updated = post

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (srv *postService) Delete(ctx context.Context, identity entity.Identity, postID uuid.UUID) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		if _, err := findOwnedPost(ctx, postRepo, identity, postID); err != nil {
			return err
		}

		if err := postRepo.Delete(ctx, postID); err != nil {
			return mapPostWriteError(err, "failed to delete post")
		}

		srv.log(ctx).Info("Post deleted", slog.String("postID", postID.String()))

		return nil
	})
}

// Publish assigns a slug and makes the post public. A published post is returned unchanged.
func (srv *postService) Publish(ctx context.Context, identity entity.Identity, postID uuid.UUID) (*entity.Post, error) {
	var published *entity.Post
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		post, err := findOwnedPost(ctx, postRepo, identity, postID)
		if err != nil {
			return err
		}
		if post.IsPublished() {
			published = post

			return nil
		}

		title := strings.TrimSpace(post.Title)
		if title == "" {
			return domainerrors.ErrPostTitleRequired
		}

		now := srv.now()
		slug := slugify(title) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
		post.Slug = &slug
		post.Status = entity.PostStatusPublished
		post.PublishedAt = &now
		post.UpdatedAt = now

		if err := postRepo.Update(ctx, post); err != nil {
			return mapPostWriteError(err, "failed to publish post")
		}
		published = post

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Post published",
		slog.String("postID", published.ID.String()),
		slog.String("slug", *published.Slug),
	)

	return published, nil
}

func (srv *postService) ListMine(ctx context.Context, identity entity.Identity) ([]*entity.Post, error) {
	posts, err := srv.postRepo.ListByAuthor(ctx, identity.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	return posts, nil
}

func (srv *postService) GetMine(ctx context.Context, identity entity.Identity, postID uuid.UUID) (*entity.Post, error) {
	return findOwnedPost(ctx, srv.postRepo, identity, postID)
}

func (srv *postService) ListPublished(ctx context.Context) ([]*entity.Post, error) {
	posts, err := srv.postRepo.ListPublished(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list published posts")
	}

	return posts, nil
}

func (srv *postService) GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	post, err := srv.postRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	return post, nil
}

// findOwnedPost loads a post and checks that the caller authored it.
func findOwnedPost(ctx context.Context, repo repository.PostRepository, identity entity.Identity, postID uuid.UUID) (*entity.Post, error) {
	post, err := repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	if !post.IsOwnedBy(identity.UserID) {
		return nil, domainerrors.ErrPostNotOwned
	}

	return post, nil
}

func mapPostWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrPostNotFound):
		return domainerrors.ErrPostNotFound
	case errors.Is(err, repository.ErrSlugTaken):
		return domainerrors.ErrSlugConflict
	default:
		return errors.Wrap(err, message)
	}
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) > maxTitleLength {
		return domainerrors.ErrValidationFailed.WithDetails("title must be at most 120 characters")
	}

	return nil
}

var turkishFold = strings.NewReplacer(
	"ç", "c",
	"ğ", "g",
	"ı", "i",
	"ö", "o",
	"ş", "s",
	"ü", "u",
)

// slugify lowercases s, folds Turkish letters to ASCII, turns whitespace runs into single dashes
// and drops everything outside [a-z0-9-].
func slugify(s string) string {
	folded := turkishFold.Replace(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(folded))
	lastDash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
