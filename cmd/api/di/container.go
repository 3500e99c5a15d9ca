package di

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"userapp/cmd/api/infrastructure"
	"userapp/internal/adapter/db/memory"
	"userapp/internal/adapter/db/postgres"
	redisstore "userapp/internal/adapter/db/redis"
	ginhandler "userapp/internal/adapter/gin/handler"
	grpcadapter "userapp/internal/adapter/grpc"
	"userapp/internal/config"
	"userapp/internal/usecase/user"
	redisclient "userapp/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB            // set for the postgres and sqlite drivers
	RedisClient *redisclient.Client // set for the redis driver
	Repo        user.Repository
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
	GRPCService *grpcadapter.UserService
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	switch cfg.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.Repo = postgres.NewUserRepoPG(db, l)
	case config.DriverRedis:
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		c.Repo = redisstore.NewUserRepoRedis(rdb.Client, l)
	case config.DriverMemory:
		c.Repo = memory.NewUserRepoMemory()
	}

	l.Info("user store initialized", zap.String("driver", cfg.Store.Driver))

	c.UserUC = user.New(c.Repo, l)
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.GRPCService = grpcadapter.NewUserService(c.UserUC, l)

	return c, nil
}

// HealthCheck pings the backing store. The memory store is always healthy.
func (c *Container) HealthCheck(ctx context.Context) error {
	switch {
	case c.DB != nil:
		return infrastructure.PingDatabase(ctx, c.DB)
	case c.RedisClient != nil:
		return c.RedisClient.Healthy(ctx)
	default:
		return nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
