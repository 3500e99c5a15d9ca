// Package memory implements the user repository in process memory.
// Useful for testing and development.
package memory

import (
	"context"
	"sync"

	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
)

var _ user.Repository = (*UserRepoMemory)(nil)

// UserRepoMemory implements user.Repository with a map guarded by a RWMutex.
// Ids are assigned from a monotonic counter, so id order is insertion order.
type UserRepoMemory struct {
	mu     sync.RWMutex
	users  map[int64]domain.User
	nextID int64
}

// NewUserRepoMemory creates an empty in-memory repository.
func NewUserRepoMemory() *UserRepoMemory {
	return &UserRepoMemory{
		users: make(map[int64]domain.User),
	}
}

// Save inserts u when its ID is zero and overwrites the stored record otherwise.
func (r *UserRepoMemory) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, apperrors.NewValidationError("user", "must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := *u
	if rec.ID == 0 {
		r.nextID++
		rec.ID = r.nextID
	} else if _, ok := r.users[rec.ID]; !ok {
		return nil, apperrors.NewNotFoundError(domain.Resource, rec.ID)
	}

	r.users[rec.ID] = rec
	u.ID = rec.ID
	return &rec, nil
}

// FindByID returns a copy of the user, or nil when absent.
func (r *UserRepoMemory) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// FindAll returns a snapshot of all users ordered by id.
func (r *UserRepoMemory) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.snapshot(), nil
}

// FindAllPaged returns one page of all users ordered by id.
func (r *UserRepoMemory) FindAllPaged(ctx context.Context, p domain.Pageable) (*domain.Page[domain.User], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return domain.PageOf(r.snapshot(), p), nil
}

// Delete removes the user with the given id.
func (r *UserRepoMemory) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.NewNotFoundError(domain.Resource, id)
	}
	delete(r.users, id)
	return nil
}

// Search returns all matching users ordered by id.
func (r *UserRepoMemory) Search(ctx context.Context, query string) ([]domain.User, error) {
	return domain.Filter(r.snapshot(), query), nil
}

// SearchPaged returns one page of the matching users ordered by id.
func (r *UserRepoMemory) SearchPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) {
	return domain.Search(r.snapshot(), query, p)
}

// snapshot copies the stored users, ordered by id.
func (r *UserRepoMemory) snapshot() []domain.User {
	r.mu.RLock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	r.mu.RUnlock()

	domain.SortByID(users)
	return users
}
