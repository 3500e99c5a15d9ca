package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
	"userapp/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string           `json:"error"`
	Message    string           `json:"message,omitempty"`
	Violations []user.Violation `json:"violations,omitempty"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	in, ok := h.bindUserDto(c)
	if !ok {
		return
	}

	out, err := h.uc.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	out, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	out, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// ListUsersPaged handles GET /api/users/pages?page=&size=
func (h *UserHandler) ListUsersPaged(c *gin.Context) {
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	out, err := h.uc.ListUsersPaged(c.Request.Context(), page, size)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// SearchUsers handles GET /api/users/search?q=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	q, ok := h.queryParam(c)
	if !ok {
		return
	}

	out, err := h.uc.SearchUsers(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// SearchUsersPaged handles GET /api/users/search/pages?q=&page=&size=
func (h *UserHandler) SearchUsersPaged(c *gin.Context) {
	q, ok := h.queryParam(c)
	if !ok {
		return
	}
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	out, err := h.uc.SearchUsersPaged(c.Request.Context(), q, domain.Pageable{Page: page, Size: size})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// UpdateUser handles PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	in, ok := h.bindUserDto(c)
	if !ok {
		return
	}

	out, err := h.uc.UpdateUser(c.Request.Context(), in, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// DeleteUser handles DELETE /api/users/:id and echoes the deleted id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, id)
}

// bindUserDto decodes and validates the request body, writing a 400 on failure.
func (h *UserHandler) bindUserDto(c *gin.Context) (user.UserDto, bool) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var in user.UserDto
	if err := c.ShouldBindJSON(&in); err != nil {
		log.Warn("invalid user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be a JSON user object",
		})
		return user.UserDto{}, false
	}

	if violations := user.ValidateUserDto(in); len(violations) > 0 {
		log.Warn("user request failed validation", zap.Int("violations", len(violations)))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:      "validation_error",
			Message:    user.ViolationError(violations).Error(),
			Violations: violations,
		})
		return user.UserDto{}, false
	}

	return in, true
}

func (h *UserHandler) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user id", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return 0, false
	}
	return id, true
}

// queryParam reads the required q parameter. An empty value is allowed.
func (h *UserHandler) queryParam(c *gin.Context) (string, bool) {
	q, ok := c.GetQuery("q")
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "query parameter q is required",
		})
		return "", false
	}
	return q, true
}

// pageParams reads the required integer page and size parameters. Range
// checks are left to the usecase.
func (h *UserHandler) pageParams(c *gin.Context) (int, int, bool) {
	page, ok := h.intQuery(c, "page")
	if !ok {
		return 0, 0, false
	}
	size, ok := h.intQuery(c, "size")
	if !ok {
		return 0, 0, false
	}
	return page, size, true
}

func (h *UserHandler) intQuery(c *gin.Context, name string) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "query parameter " + name + " is required",
		})
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "query parameter " + name + " must be an integer",
		})
		return 0, false
	}
	return n, true
}

// handleError converts usecase errors to HTTP responses
func (h *UserHandler) handleError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var (
		notFound    *apperrors.NotFoundError
		invalid     *apperrors.ValidationError
		unavailable *apperrors.UnavailableError
	)

	switch {
	case errors.As(err, &notFound):
		log.Info("user not found", zap.Int64("id", notFound.ID))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: notFound.Error()})
	case errors.As(err, &invalid):
		log.Warn("invalid argument", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: invalid.Error()})
	case errors.As(err, &unavailable):
		log.Error("store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "unavailable", Message: unavailable.Message})
	default:
		log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
