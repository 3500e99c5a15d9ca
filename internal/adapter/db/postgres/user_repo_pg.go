package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
	"userapp/pkg/security"
)

var _ user.Repository = (*UserRepoPG)(nil)

// UserRepoPG implements the Repository interface using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"size:255;not null"`
	LastName  string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;not null"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

func toSchema(u *domain.User) UserSchema {
	return UserSchema{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func toDomain(m UserSchema) domain.User {
	return domain.User{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
	}
}

func toDomainList(models []UserSchema) []domain.User {
	users := make([]domain.User, len(models))
	for i, m := range models {
		users[i] = toDomain(m)
	}
	return users
}

// containing restricts a query to users with query as a substring of
// first_name, last_name or email. Wildcards in query match literally.
func containing(query string) func(*gorm.DB) *gorm.DB {
	pattern := security.ContainsPattern(query)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"first_name LIKE ? ESCAPE '\\' OR last_name LIKE ? ESCAPE '\\' OR email LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}
}

// unavailable logs a driver failure and wraps it as a store outage.
func (r *UserRepoPG) unavailable(msg string, err error, fields ...zap.Field) error {
	r.log.Error(msg, append(fields, zap.Error(err))...)
	return apperrors.NewUnavailableError(msg, err)
}

// Save inserts a new user when its ID is zero and updates the existing row otherwise.
func (r *UserRepoPG) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, apperrors.NewValidationError("user", "must not be nil")
	}

	model := toSchema(u)

	if model.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
			return nil, r.unavailable("failed to create user", err)
		}
		r.log.Info("user created in db", zap.Int64("id", model.ID))
	} else {
		res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("id = ?", model.ID).Updates(map[string]any{
			"first_name": model.FirstName,
			"last_name":  model.LastName,
			"email":      model.Email,
		})
		if res.Error != nil {
			return nil, r.unavailable("failed to update user", res.Error, zap.Int64("id", model.ID))
		}
		if res.RowsAffected == 0 {
			r.log.Warn("user to update not found", zap.Int64("id", model.ID))
			return nil, apperrors.NewNotFoundError(domain.Resource, model.ID)
		}
		r.log.Info("user updated in db", zap.Int64("id", model.ID))
	}

	saved := toDomain(model)
	u.ID = saved.ID
	return &saved, nil
}

// FindByID retrieves a user by primary key. A missing row yields (nil, nil).
func (r *UserRepoPG) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		return nil, r.unavailable("failed to get user", err, zap.Int64("id", id))
	}

	u := toDomain(model)
	return &u, nil
}

// FindAll retrieves every user ordered by id.
func (r *UserRepoPG) FindAll(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, r.unavailable("failed to list users", err)
	}
	return toDomainList(models), nil
}

// FindAllPaged retrieves one page of all users ordered by id.
func (r *UserRepoPG) FindAllPaged(ctx context.Context, p domain.Pageable) (*domain.Page[domain.User], error) {
	return r.page(ctx, nil, p)
}

// Delete removes a user by ID.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		return r.unavailable("failed to delete user", res.Error, zap.Int64("id", id))
	}
	if res.RowsAffected == 0 {
		r.log.Warn("user to delete not found", zap.Int64("id", id))
		return apperrors.NewNotFoundError(domain.Resource, id)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}

// Search retrieves every user matching query, ordered by id.
func (r *UserRepoPG) Search(ctx context.Context, query string) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Scopes(containing(query)).Order("id ASC").Find(&models).Error; err != nil {
		return nil, r.unavailable("failed to search users", err, zap.String("query", query))
	}
	return toDomainList(models), nil
}

// SearchPaged retrieves one page of the users matching query, ordered by id.
func (r *UserRepoPG) SearchPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) {
	return r.page(ctx, containing(query), p)
}

// page counts and windows the rows selected by scope (all rows when nil).
// The count and the window are separate statements with no cross-statement
// consistency.
func (r *UserRepoPG) page(ctx context.Context, scope func(*gorm.DB) *gorm.DB, p domain.Pageable) (*domain.Page[domain.User], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	base := r.db.WithContext(ctx).Model(&UserSchema{})
	if scope != nil {
		base = base.Scopes(scope)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, r.unavailable("failed to count users", err, zap.Int("page", p.Page), zap.Int("size", p.Size))
	}

	if p.PastEnd(total) {
		return domain.NewPage([]domain.User{}, p, total), nil
	}

	var models []UserSchema
	if err := base.Session(&gorm.Session{}).Order("id ASC").Offset(p.Offset()).Limit(p.Size).Find(&models).Error; err != nil {
		return nil, r.unavailable("failed to page users", err, zap.Int("page", p.Page), zap.Int("size", p.Size))
	}

	return domain.NewPage(toDomainList(models), p, total), nil
}
