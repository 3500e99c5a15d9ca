package user

import (
	"context"

	"go.uber.org/zap"

	domain "userapp/internal/domain/user"
	apperrors "userapp/pkg/errors"
	"userapp/pkg/logger"
	"userapp/pkg/security"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (in-memory, SQL via GORM, Redis) to be used interchangeably.
type Repository interface {
	Save(ctx context.Context, u *domain.User) (*domain.User, error)                                       // Insert when ID is zero, overwrite otherwise
	FindByID(ctx context.Context, id int64) (*domain.User, error)                                         // Nil user when absent
	FindAll(ctx context.Context) ([]domain.User, error)                                                   // All users in id order
	FindAllPaged(ctx context.Context, p domain.Pageable) (*domain.Page[domain.User], error)               // Generic pagination
	Delete(ctx context.Context, id int64) error                                                           // NotFound when absent
	Search(ctx context.Context, query string) ([]domain.User, error)                                      // Substring search, no paging
	SearchPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) // Substring search, paged
}

// UserUsecase implements the business logic for user management operations.
// It provides a clean separation between the transport layer and data layer.
type UserUsecase struct {
	repo Repository  // Repository for data access
	log  *zap.Logger // Logger for structured logging
}

// New creates a new instance of UserUsecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *UserUsecase {
	return &UserUsecase{repo: r, log: log}
}

var _ Usecase = (*UserUsecase)(nil)

// CreateUser stores a new user built from the DTO.
func (uc *UserUsecase) CreateUser(ctx context.Context, in UserDto) (*UserDto, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("email", in.Email))

	saved, err := uc.repo.Save(ctx, ToEntity(in))
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	log.Debug("user created", zap.Int64("id", saved.ID))
	out := ToDto(saved)
	return &out, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUsecase) GetUser(ctx context.Context, id int64) (*UserDto, error) {
	u, err := uc.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	out := ToDto(u)
	return &out, nil
}

// ListUsers returns every user in store order.
func (uc *UserUsecase) ListUsers(ctx context.Context) ([]UserDto, error) {
	users, err := uc.repo.FindAll(ctx)
	if err != nil {
		logger.WithContext(ctx, uc.log).Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return ToDtos(users), nil
}

// ListUsersPaged returns a page of user entities.
// Unlike the other read paths the content is not mapped to DTOs.
func (uc *UserUsecase) ListUsersPaged(ctx context.Context, page, size int) (*domain.Page[domain.User], error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("listing users", zap.Int("page", page), zap.Int("size", size))

	p, err := domain.NewPageable(page, size)
	if err != nil {
		log.Warn("invalid pagination", zap.Int("page", page), zap.Int("size", size), zap.Error(err))
		return nil, err
	}

	result, err := uc.repo.FindAllPaged(ctx, p)
	if err != nil {
		log.Error("failed to list users", zap.Int("page", page), zap.Int("size", size), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// UpdateUser overwrites the three mutable fields of an existing user.
// The read and the write are separate store calls, so concurrent updates of
// the same id may lose one of the writes.
func (uc *UserUsecase) UpdateUser(ctx context.Context, in UserDto, id int64) (*UserDto, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("updating user", zap.Int64("id", id))

	u, err := uc.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	u.FirstName = in.FirstName
	u.LastName = in.LastName
	u.Email = in.Email

	saved, err := uc.repo.Save(ctx, u)
	if err != nil {
		log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	out := ToDto(saved)
	return &out, nil
}

// DeleteUser removes an existing user.
func (uc *UserUsecase) DeleteUser(ctx context.Context, id int64) error {
	log := logger.WithContext(ctx, uc.log)
	log.Info("deleting user", zap.Int64("id", id))

	if _, err := uc.findExisting(ctx, id); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// SearchUsers returns every user whose first name, last name or email contains query.
func (uc *UserUsecase) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("searching users", zap.String("query", query))

	if _, err := security.ValidateSearchQuery(query); err != nil {
		log.Warn("invalid search query", zap.Error(err))
		return nil, err
	}

	users, err := uc.repo.Search(ctx, query)
	if err != nil {
		log.Error("failed to search users", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return users, nil
}

// SearchUsersPaged returns one page of the users matching query, ordered by id.
func (uc *UserUsecase) SearchUsersPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("searching users", zap.String("query", query), zap.Int("page", p.Page), zap.Int("size", p.Size))

	if _, err := security.ValidateSearchQuery(query); err != nil {
		log.Warn("invalid search query", zap.Error(err))
		return nil, err
	}
	if err := p.Validate(); err != nil {
		log.Warn("invalid pagination", zap.Int("page", p.Page), zap.Int("size", p.Size), zap.Error(err))
		return nil, err
	}

	result, err := uc.repo.SearchPaged(ctx, query, p)
	if err != nil {
		log.Error("failed to search users", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// findExisting loads a user or fails with NotFound.
func (uc *UserUsecase) findExisting(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.WithContext(ctx, uc.log)

	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if u == nil {
		log.Warn("user not found", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError(domain.Resource, id)
	}
	return u, nil
}
