package user

import (
	"context"

	domain "userapp/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in UserDto) (*UserDto, error)
	GetUser(ctx context.Context, id int64) (*UserDto, error)
	ListUsers(ctx context.Context) ([]UserDto, error)
	ListUsersPaged(ctx context.Context, page, size int) (*domain.Page[domain.User], error)
	UpdateUser(ctx context.Context, in UserDto, id int64) (*UserDto, error)
	DeleteUser(ctx context.Context, id int64) error
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
	SearchUsersPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error)
}
