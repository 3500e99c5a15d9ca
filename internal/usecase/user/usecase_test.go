package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "userapp/internal/domain/user"
	apperrors "userapp/pkg/errors"
	"userapp/pkg/security"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) FindAllPaged(ctx context.Context, p domain.Pageable) (*domain.Page[domain.User], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.User]), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Search(ctx context.Context, query string) ([]domain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) SearchPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) {
	args := m.Called(ctx, query, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.User]), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*UserUsecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, logger)
	return uc, mockRepo
}

// ==================== CREATE USER TESTS ====================

func TestCreateUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	in := UserDto{FirstName: "Jayod", LastName: "Jayasekara", Email: "jayod@gmail.com"}

	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 0 && u.FirstName == in.FirstName && u.LastName == in.LastName && u.Email == in.Email
	})).Return(&domain.User{ID: 1, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil)

	out, err := uc.CreateUser(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, in, *out)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_StoreUnavailable(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	storeErr := apperrors.NewUnavailableError("store unavailable", errors.New("connection refused"))
	mockRepo.On("Save", ctx, mock.Anything).Return(nil, storeErr)

	out, err := uc.CreateUser(ctx, UserDto{FirstName: "Jayod", LastName: "Jayasekara", Email: "jayod@gmail.com"})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, storeErr)
}

// ==================== GET USER TESTS ====================

func TestGetUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(1)).Return(&domain.User{ID: 1, FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"}, nil)

	out, err := uc.GetUser(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, UserDto{FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"}, *out)
}

func TestGetUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(100)).Return(nil, nil)

	out, err := uc.GetUser(ctx, 100)

	assert.Nil(t, out)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
	assert.Equal(t, int64(100), nf.ID)
	assert.Equal(t, "user not found for ID: 100", err.Error())
}

func TestGetUser_StoreError(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(1)).Return(nil, apperrors.NewUnavailableError("store unavailable", nil))

	_, err := uc.GetUser(ctx, 1)

	assert.True(t, apperrors.IsUnavailable(err))
	assert.False(t, apperrors.IsNotFound(err))
}

// ==================== LIST USERS TESTS ====================

func TestListUsers_KeepsStoreOrder(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindAll", ctx).Return([]domain.User{
		{ID: 1, FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"},
		{ID: 2, FirstName: "Tony", LastName: "Stark", Email: "tony@gmail.com"},
	}, nil)

	out, err := uc.ListUsers(ctx)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ramesh", out[0].FirstName)
	assert.Equal(t, "Tony", out[1].FirstName)
}

func TestListUsersPaged_DelegatesToStore(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	expected := domain.NewPage([]domain.User{{ID: 3, FirstName: "Tony", LastName: "Stark", Email: "tony@gmail.com"}}, domain.Pageable{Page: 1, Size: 2}, 3)
	mockRepo.On("FindAllPaged", ctx, domain.Pageable{Page: 1, Size: 2}).Return(expected, nil)

	page, err := uc.ListUsersPaged(ctx, 1, 2)

	require.NoError(t, err)
	assert.Same(t, expected, page)
}

func TestListUsersPaged_InvalidArguments(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
	}{
		{name: "negative page", page: -1, size: 10},
		{name: "zero size", page: 0, size: 0},
		{name: "negative size", page: 0, size: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			page, err := uc.ListUsersPaged(context.Background(), tt.page, tt.size)

			assert.Nil(t, page)
			assert.True(t, apperrors.IsValidation(err))
			mockRepo.AssertNotCalled(t, "FindAllPaged", mock.Anything, mock.Anything)
		})
	}
}

// ==================== UPDATE USER TESTS ====================

func TestUpdateUser_ChangesFieldsAndKeepsID(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	stored := &domain.User{ID: 1, FirstName: "Ramesh", LastName: "silva", Email: "ramesh@gmail.com"}
	in := UserDto{FirstName: "Ram", LastName: "Jadhav", Email: "ram@gmail.com"}

	mockRepo.On("FindByID", ctx, int64(1)).Return(stored, nil)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 1 && u.FirstName == "Ram" && u.LastName == "Jadhav" && u.Email == "ram@gmail.com"
	})).Return(&domain.User{ID: 1, FirstName: "Ram", LastName: "Jadhav", Email: "ram@gmail.com"}, nil)

	out, err := uc.UpdateUser(ctx, in, 1)

	require.NoError(t, err)
	assert.Equal(t, in, *out)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(5)).Return(nil, nil)

	out, err := uc.UpdateUser(ctx, UserDto{FirstName: "Ram", LastName: "Jadhav", Email: "ram@gmail.com"}, 5)

	assert.Nil(t, out)
	assert.True(t, apperrors.IsNotFound(err))
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// ==================== DELETE USER TESTS ====================

func TestDeleteUser_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(1)).Return(&domain.User{ID: 1, FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"}, nil)
	mockRepo.On("Delete", ctx, int64(1)).Return(nil)

	err := uc.DeleteUser(ctx, 1)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(42)).Return(nil, nil)

	err := uc.DeleteUser(ctx, 42)

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
	assert.Equal(t, int64(42), nf.ID)
	assert.Equal(t, "user not found for ID: 42", err.Error())
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// ==================== SEARCH TESTS ====================

func TestSearchUsers_ReturnsEntities(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	users := []domain.User{
		{ID: 1, FirstName: "key", LastName: "Silva", Email: "silva@gmail.com"},
		{ID: 2, FirstName: "Tony", LastName: "key", Email: "tony@gmail.com"},
	}
	mockRepo.On("Search", ctx, "key").Return(users, nil)

	out, err := uc.SearchUsers(ctx, "key")

	require.NoError(t, err)
	assert.Equal(t, users, out)
}

func TestSearchUsersPaged_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	p := domain.Pageable{Page: 0, Size: 1}
	expected := domain.NewPage([]domain.User{{ID: 1, FirstName: "key", LastName: "Silva", Email: "silva@x.com"}}, p, 2)
	mockRepo.On("SearchPaged", ctx, "key", p).Return(expected, nil)

	page, err := uc.SearchUsersPaged(ctx, "key", p)

	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 1)
}

func TestSearchUsersPaged_RejectsInvalidPageable(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	page, err := uc.SearchUsersPaged(context.Background(), "key", domain.Pageable{Page: 0, Size: 0})

	assert.Nil(t, page)
	assert.True(t, apperrors.IsValidation(err))
	mockRepo.AssertNotCalled(t, "SearchPaged", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchUsers_RejectsOversizedQuery(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	query := strings.Repeat("a", security.MaxSearchQueryLength+1)

	out, err := uc.SearchUsers(context.Background(), query)
	assert.Nil(t, out)
	assert.True(t, apperrors.IsValidation(err))

	page, err := uc.SearchUsersPaged(context.Background(), query, domain.Pageable{Page: 0, Size: 10})
	assert.Nil(t, page)
	assert.True(t, apperrors.IsValidation(err))

	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SearchPaged", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchUsers_AcceptsColumnWidthQuery(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()
	query := strings.Repeat("a", security.MaxSearchQueryLength)
	mockRepo.On("Search", ctx, query).Return([]domain.User{}, nil)

	out, err := uc.SearchUsers(ctx, query)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 255, security.MaxSearchQueryLength)
	mockRepo.AssertExpectations(t)
}
