package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "userapp/internal/domain/user"
	usecase "userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
)

// MockUsecase is a mock implementation of user.Usecase
type MockUsecase struct {
	mock.Mock
}

func (m *MockUsecase) CreateUser(ctx context.Context, in usecase.UserDto) (*usecase.UserDto, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserDto), args.Error(1)
}

func (m *MockUsecase) GetUser(ctx context.Context, id int64) (*usecase.UserDto, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserDto), args.Error(1)
}

func (m *MockUsecase) ListUsers(ctx context.Context) ([]usecase.UserDto, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.UserDto), args.Error(1)
}

func (m *MockUsecase) ListUsersPaged(ctx context.Context, page, size int) (*domain.Page[domain.User], error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.User]), args.Error(1)
}

func (m *MockUsecase) UpdateUser(ctx context.Context, in usecase.UserDto, id int64) (*usecase.UserDto, error) {
	args := m.Called(ctx, in, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.UserDto), args.Error(1)
}

func (m *MockUsecase) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsecase) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUsecase) SearchUsersPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) {
	args := m.Called(ctx, query, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Page[domain.User]), args.Error(1)
}

var _ usecase.Usecase = (*MockUsecase)(nil)

func setupTest(t *testing.T) (*gin.Engine, *MockUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockUsecase)
	h := NewUserHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	users := r.Group("/api/users")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/pages", h.ListUsersPaged)
	users.GET("/search", h.SearchUsers)
	users.GET("/search/pages", h.SearchUsersPaged)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	t.Cleanup(func() { mockUsecase.AssertExpectations(t) })
	return r, mockUsecase
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var ramesh = usecase.UserDto{FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"}

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, ramesh).Return(&ramesh, nil)

		w := do(r, http.MethodPost, "/api/users", ramesh)

		assert.Equal(t, http.StatusCreated, w.Code)
		var got usecase.UserDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, ramesh, got)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodPost, "/api/users", "invalid json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_request", decodeError(t, w).Error)
	})

	t.Run("Validation Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := do(r, http.MethodPost, "/api/users", usecase.UserDto{FirstName: "R", LastName: "Fadatare", Email: "not-an-email"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.ElementsMatch(t, []usecase.Violation{
			{Field: "firstName", Message: "First Name should have at least 2 characters"},
			{Field: "email", Message: "must be a well-formed email address"},
		}, resp.Violations)
		mockUsecase.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("Store Unavailable", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("CreateUser", mock.Anything, ramesh).
			Return(nil, apperrors.NewUnavailableError("failed to create user", errors.New("dial tcp: refused")))

		w := do(r, http.MethodPost, "/api/users", ramesh)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "unavailable", resp.Error)
		assert.Equal(t, "failed to create user", resp.Message)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, int64(1)).Return(&ramesh, nil)

		w := do(r, http.MethodGet, "/api/users/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"firstName":"Ramesh","lastName":"Fadatare","email":"ramesh@gmail.com"}`, w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, int64(42)).Return(nil, apperrors.NewNotFoundError("user", 42))

		w := do(r, http.MethodGet, "/api/users/42", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "not_found", resp.Error)
		assert.Equal(t, "user not found for ID: 42", resp.Message)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodGet, "/api/users/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_id", decodeError(t, w).Error)
	})

	t.Run("Unexpected Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("GetUser", mock.Anything, int64(1)).Return(nil, errors.New("boom"))

		w := do(r, http.MethodGet, "/api/users/1", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "An internal error occurred", decodeError(t, w).Message)
	})
}

func TestListUsers(t *testing.T) {
	r, mockUsecase := setupTest(t)
	mockUsecase.On("ListUsers", mock.Anything).Return([]usecase.UserDto{
		ramesh,
		{FirstName: "Tony", LastName: "Stark", Email: "tony@gmail.com"},
	}, nil)

	w := do(r, http.MethodGet, "/api/users", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []usecase.UserDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestListUsersPaged(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		p := domain.Pageable{Page: 0, Size: 1}
		page := domain.NewPage([]domain.User{{ID: 1, FirstName: "Ramesh", LastName: "Fadatare", Email: "ramesh@gmail.com"}}, p, 2)
		mockUsecase.On("ListUsersPaged", mock.Anything, 0, 1).Return(page, nil)

		w := do(r, http.MethodGet, "/api/users/pages?page=0&size=1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.EqualValues(t, 2, got["totalElements"])
		assert.EqualValues(t, 2, got["totalPages"])
		assert.Equal(t, true, got["first"])
		assert.Equal(t, false, got["last"])
		assert.Len(t, got["content"], 1)
	})

	t.Run("Missing Size", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodGet, "/api/users/pages?page=0", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "query parameter size is required", decodeError(t, w).Message)
	})

	t.Run("Non Integer Page", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodGet, "/api/users/pages?page=x&size=1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "query parameter page must be an integer", decodeError(t, w).Message)
	})

	t.Run("Zero Size", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("ListUsersPaged", mock.Anything, 0, 0).
			Return(nil, apperrors.NewValidationError("size", "page size must be greater than zero"))

		w := do(r, http.MethodGet, "/api/users/pages?page=0&size=0", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})
}

func TestSearchUsers(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		users := []domain.User{{ID: 1, FirstName: "key", LastName: "Silva", Email: "silva@x.com"}}
		mockUsecase.On("SearchUsers", mock.Anything, "key").Return(users, nil)

		w := do(r, http.MethodGet, "/api/users/search?q=key", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"firstName":"key","lastName":"Silva","email":"silva@x.com"}]`, w.Body.String())
	})

	t.Run("Empty Query Is Allowed", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("SearchUsers", mock.Anything, "").Return([]domain.User{}, nil)

		w := do(r, http.MethodGet, "/api/users/search?q=", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("Missing Query", func(t *testing.T) {
		r, _ := setupTest(t)

		w := do(r, http.MethodGet, "/api/users/search", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "query parameter q is required", decodeError(t, w).Message)
	})
}

func TestSearchUsersPaged(t *testing.T) {
	r, mockUsecase := setupTest(t)
	p := domain.Pageable{Page: 2, Size: 1}
	mockUsecase.On("SearchUsersPaged", mock.Anything, "key", p).Return(domain.NewPage[domain.User](nil, p, 2), nil)

	w := do(r, http.MethodGet, "/api/users/search/pages?q=key&page=2&size=1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []any{}, got["content"])
	assert.EqualValues(t, 2, got["totalElements"])
	assert.Equal(t, true, got["empty"])
}

func TestUpdateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		updated := usecase.UserDto{FirstName: "Ram", LastName: "Jadhav", Email: "ram@gmail.com"}
		mockUsecase.On("UpdateUser", mock.Anything, updated, int64(1)).Return(&updated, nil)

		w := do(r, http.MethodPut, "/api/users/1", updated)

		assert.Equal(t, http.StatusOK, w.Code)
		var got usecase.UserDto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, updated, got)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("UpdateUser", mock.Anything, ramesh, int64(7)).Return(nil, apperrors.NewNotFoundError("user", 7))

		w := do(r, http.MethodPut, "/api/users/7", ramesh)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Validation Error", func(t *testing.T) {
		r, mockUsecase := setupTest(t)

		w := do(r, http.MethodPut, "/api/users/1", usecase.UserDto{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, decodeError(t, w).Violations, 3)
		mockUsecase.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success Returns ID", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, int64(1)).Return(nil)

		w := do(r, http.MethodDelete, "/api/users/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Body.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupTest(t)
		mockUsecase.On("DeleteUser", mock.Anything, int64(9)).Return(apperrors.NewNotFoundError("user", 9))

		w := do(r, http.MethodDelete, "/api/users/9", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "user not found for ID: 9", decodeError(t, w).Message)
	})
}
