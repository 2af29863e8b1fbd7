package memory

import (
	"context"
	"time"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"

	"github.com/google/uuid"
)

type postRepository struct {
	store *Store
	tx    *state
}

// NewPostRepository returns a PostRepository backed by the store.
func NewPostRepository(store *Store) repository.PostRepository {
	return &postRepository{store: store}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		if _, ok := st.users[post.AuthorID]; !ok {
			return repository.ErrUserNotFound
		}
		if slugTaken(st, post.Slug, post.ID) {
			return repository.ErrSlugTaken
		}
		if post.ID == uuid.Nil {
			post.ID = uuid.New()
		}
		if post.Status == "" {
			post.Status = entity.PostStatusDraft
		}
		now := r.store.now()
		post.CreatedAt, post.UpdatedAt = now, now
		st.posts[post.ID] = clonePost(post)

		return nil
	})
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		existing, ok := st.posts[post.ID]
		if !ok {
			return repository.ErrPostNotFound
		}
		if slugTaken(st, post.Slug, post.ID) {
			return repository.ErrSlugTaken
		}

		updated := clonePost(post)
		updated.AuthorID = existing.AuthorID
		updated.AuthorName = ""
		updated.CreatedAt = existing.CreatedAt
		st.posts[post.ID] = updated

		return nil
	})
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		if _, ok := st.posts[id]; !ok {
			return repository.ErrPostNotFound
		}
		delete(st.posts, id)

		for _, m := range st.media {
			if m.PostID != nil && *m.PostID == id {
				m.PostID = nil
			}
		}

		return nil
	})
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var found *entity.Post
	err := r.store.run(ctx, r.tx, func(st *state) error {
		p, ok := st.posts[id]
		if !ok {
			return repository.ErrPostNotFound
		}
		found = clonePost(p)

		return nil
	})

	return found, err
}

func (r *postRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	var found *entity.Post
	err := r.store.run(ctx, r.tx, func(st *state) error {
		for _, p := range st.posts {
			if p.IsPublished() && p.Slug != nil && *p.Slug == slug {
				found = withAuthor(st, p)

				return nil
			}
		}

		return repository.ErrPostNotFound
	})

	return found, err
}

func (r *postRepository) ListPublished(ctx context.Context) ([]*entity.Post, error) {
	return r.list(ctx, func(p *entity.Post) bool { return p.IsPublished() }, true)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*entity.Post, error) {
	return r.list(ctx, func(p *entity.Post) bool { return p.IsOwnedBy(authorID) }, false)
}

func (r *postRepository) list(ctx context.Context, keep func(*entity.Post) bool, joinAuthor bool) ([]*entity.Post, error) {
	posts := []*entity.Post{}
	err := r.store.run(ctx, r.tx, func(st *state) error {
		for _, p := range st.posts {
			if !keep(p) {
				continue
			}
			if joinAuthor {
				posts = append(posts, withAuthor(st, p))
			} else {
				posts = append(posts, clonePost(p))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	newestFirst(posts,
		func(p *entity.Post) time.Time { return p.CreatedAt },
		func(p *entity.Post) uuid.UUID { return p.ID })

	return posts, nil
}

func withAuthor(st *state, p *entity.Post) *entity.Post {
	cp := clonePost(p)
	if author, ok := st.users[p.AuthorID]; ok {
		cp.AuthorName = author.DisplayName
	}

	return cp
}

func slugTaken(st *state, slug *string, self uuid.UUID) bool {
	if slug == nil {
		return false
	}
	for id, p := range st.posts {
		if id != self && p.Slug != nil && *p.Slug == *slug {
			return true
		}
	}

	return false
}
