// Package redis implements the user repository on top of Redis.
//
// Each user is a JSON document at user:{id}. The sorted set "users" indexes
// every stored id with the id as its score, so ZRANGE yields id order, and
// "users:seq" is the id counter.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
)

const (
	indexKey    = "users"
	sequenceKey = "users:seq"
)

var _ user.Repository = (*UserRepoRedis)(nil)

// UserRepoRedis implements user.Repository using Redis.
type UserRepoRedis struct {
	client redis.Cmdable
	log    *zap.Logger
}

// NewUserRepoRedis creates a Redis-backed user repository.
func NewUserRepoRedis(client redis.Cmdable, log *zap.Logger) *UserRepoRedis {
	return &UserRepoRedis{client: client, log: log}
}

// userKey generates the Redis key for a user ID.
func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (r *UserRepoRedis) unavailable(msg string, err error, fields ...zap.Field) error {
	r.log.Error(msg, append(fields, zap.Error(err))...)
	return apperrors.NewUnavailableError(msg, err)
}

// Save inserts u under a fresh id when its ID is zero and overwrites the
// stored document otherwise.
func (r *UserRepoRedis) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		return nil, apperrors.NewValidationError("user", "must not be nil")
	}

	rec := *u
	if rec.ID == 0 {
		id, err := r.client.Incr(ctx, sequenceKey).Result()
		if err != nil {
			return nil, r.unavailable("failed to allocate user id", err)
		}
		rec.ID = id

		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal user: %w", err)
		}

		_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(rec.ID), data, 0)
			pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(rec.ID), Member: rec.ID})
			return nil
		})
		if err != nil {
			return nil, r.unavailable("failed to create user", err, zap.Int64("id", rec.ID))
		}
		r.log.Info("user created in redis", zap.Int64("id", rec.ID))
	} else {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal user: %w", err)
		}

		// SET XX only succeeds when the document already exists.
		ok, err := r.client.SetXX(ctx, userKey(rec.ID), data, 0).Result()
		if err != nil {
			return nil, r.unavailable("failed to update user", err, zap.Int64("id", rec.ID))
		}
		if !ok {
			r.log.Warn("user to update not found", zap.Int64("id", rec.ID))
			return nil, apperrors.NewNotFoundError(domain.Resource, rec.ID)
		}
		r.log.Info("user updated in redis", zap.Int64("id", rec.ID))
	}

	u.ID = rec.ID
	return &rec, nil
}

// FindByID returns the user with the given id, or nil when absent.
func (r *UserRepoRedis) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	data, err := r.client.Get(ctx, userKey(id)).Bytes()
	if err == redis.Nil {
		r.log.Debug("user not found", zap.Int64("id", id))
		return nil, nil
	}
	if err != nil {
		return nil, r.unavailable("failed to get user", err, zap.Int64("id", id))
	}

	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %d: %w", id, err)
	}
	return &u, nil
}

// FindAll returns every user ordered by id.
func (r *UserRepoRedis) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.rangeByIndex(ctx, 0, -1)
}

// FindAllPaged returns one page of all users ordered by id.
func (r *UserRepoRedis) FindAllPaged(ctx context.Context, p domain.Pageable) (*domain.Page[domain.User], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	total, err := r.client.ZCard(ctx, indexKey).Result()
	if err != nil {
		return nil, r.unavailable("failed to count users", err)
	}
	if p.PastEnd(total) {
		return domain.NewPage([]domain.User{}, p, total), nil
	}

	start := int64(p.Offset())
	stop := total - 1
	if int64(p.Size) < total-start {
		stop = start + int64(p.Size) - 1
	}
	users, err := r.rangeByIndex(ctx, start, stop)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(users, p, total), nil
}

// Delete removes the user document and its index entry.
func (r *UserRepoRedis) Delete(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, userKey(id))
		pipe.ZRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return r.unavailable("failed to delete user", err, zap.Int64("id", id))
	}
	if del.Val() == 0 {
		r.log.Warn("user to delete not found", zap.Int64("id", id))
		return apperrors.NewNotFoundError(domain.Resource, id)
	}

	r.log.Info("user deleted in redis", zap.Int64("id", id))
	return nil
}

// Search returns every user matching query, ordered by id.
func (r *UserRepoRedis) Search(ctx context.Context, query string) ([]domain.User, error) {
	users, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Filter(users, query), nil
}

// SearchPaged returns one page of the users matching query, ordered by id.
func (r *UserRepoRedis) SearchPaged(ctx context.Context, query string, p domain.Pageable) (*domain.Page[domain.User], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	users, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Search(users, query, p)
}

// rangeByIndex loads the users whose index rank lies in [start, stop].
// Ids whose document vanished between the two reads are skipped.
func (r *UserRepoRedis) rangeByIndex(ctx context.Context, start, stop int64) ([]domain.User, error) {
	members, err := r.client.ZRange(ctx, indexKey, start, stop).Result()
	if err != nil {
		return nil, r.unavailable("failed to read user index", err)
	}
	if len(members) == 0 {
		return []domain.User{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = "user:" + m
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, r.unavailable("failed to load users", err)
	}

	users := make([]domain.User, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var u domain.User
		if err := json.Unmarshal([]byte(s), &u); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", keys[i], err)
		}
		users = append(users, u)
	}
	return users, nil
}
