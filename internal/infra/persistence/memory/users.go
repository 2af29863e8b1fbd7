package memory

import (
	"context"

	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
	tx    *state
}

// NewUserRepository returns a UserRepository backed by the store.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var found *entity.User
	err := r.store.run(ctx, r.tx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrUserNotFound
		}
		found = cloneUser(u)

		return nil
	})

	return found, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var found *entity.User
	err := r.store.run(ctx, r.tx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				found = cloneUser(u)

				return nil
			}
		}

		return repository.ErrUserNotFound
	})

	return found, err
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.run(ctx, r.tx, func(st *state) error {
		for _, u := range st.users {
			// Mirrors the unique index on users.email, which is case-sensitive.
			if u.Email == user.Email {
				return repository.ErrEmailTaken
			}
		}

		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		if user.Role == "" {
			user.Role = entity.RoleUser
		}
		now := r.store.now()
		user.CreatedAt, user.UpdatedAt = now, now
		st.users[user.ID] = cloneUser(user)

		return nil
	})
}
