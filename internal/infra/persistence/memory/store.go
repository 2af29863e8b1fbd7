// Package memory is an in-process storage driver used for local runs and tests.
// Transactions are serialized by a single mutex and applied copy-on-commit.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"

	"github.com/google/uuid"
)

type state struct {
	users  map[uuid.UUID]*entity.User
	tokens map[uuid.UUID]*entity.RefreshToken // keyed by jti
	posts  map[uuid.UUID]*entity.Post
	media  map[uuid.UUID]*entity.Media
}

func newState() *state {
	return &state{
		users:  make(map[uuid.UUID]*entity.User),
		tokens: make(map[uuid.UUID]*entity.RefreshToken),
		posts:  make(map[uuid.UUID]*entity.Post),
		media:  make(map[uuid.UUID]*entity.Media),
	}
}

func (s *state) clone() *state {
	next := newState()
	for id, u := range s.users {
		next.users[id] = cloneUser(u)
	}
	for id, t := range s.tokens {
		next.tokens[id] = cloneToken(t)
	}
	for id, p := range s.posts {
		next.posts[id] = clonePost(p)
	}
	for id, m := range s.media {
		cp := *m
		next.media[id] = &cp
	}

	return next
}

// Store holds every table of the in-memory driver.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// run executes fn against the transaction state when one is bound, otherwise under the store lock.
func (s *Store) run(ctx context.Context, tx *state, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return domainerrors.NewStorageError(err, "memory store unavailable")
	}
	if tx != nil {
		return fn(tx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.state)
}

type transactionManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager backed by the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute runs fn on a private copy of the data and publishes it only when fn succeeds.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return domainerrors.NewStorageError(err, "failed to begin transaction")
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	working := tm.store.state.clone()
	if err := fn(&repositoryFactory{store: tm.store, tx: working}); err != nil {
		return err
	}
	tm.store.state = working

	return nil
}

type repositoryFactory struct {
	store *Store
	tx    *state
}

func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return &userRepository{store: f.store, tx: f.tx}
}

func (f *repositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &refreshTokenRepository{store: f.store, tx: f.tx}
}

func (f *repositoryFactory) PostRepo() repository.PostRepository {
	return &postRepository{store: f.store, tx: f.tx}
}

func (f *repositoryFactory) MediaRepo() repository.MediaRepository {
	return &mediaRepository{store: f.store, tx: f.tx}
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u

	return &cp
}

func cloneToken(t *entity.RefreshToken) *entity.RefreshToken {
	cp := *t
	if t.RevokedAt != nil {
		revokedAt := *t.RevokedAt
		cp.RevokedAt = &revokedAt
	}

	return &cp
}

func clonePost(p *entity.Post) *entity.Post {
	cp := *p
	if p.Slug != nil {
		slug := *p.Slug
		cp.Slug = &slug
	}
	if p.PublishedAt != nil {
		publishedAt := *p.PublishedAt
		cp.PublishedAt = &publishedAt
	}

	return &cp
}

// newestFirst orders by creation time descending, breaking ties by id for a stable result.
func newestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) uuid.UUID) {
	slices.SortFunc(items, func(a, b T) int {
		if c := createdAt(b).Compare(createdAt(a)); c != 0 {
			return c
		}

		return strings.Compare(id(a).String(), id(b).String())
	})
}
