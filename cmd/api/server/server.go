package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	ginhandler "userapp/internal/adapter/gin/handler"
	ginrouter "userapp/internal/adapter/gin/router"
	grpcadapter "userapp/internal/adapter/grpc"
	"userapp/internal/config"
)

// Server holds the gRPC server, its HTTP gateway and the Gin REST API.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	Health *health.Server
	Gin    *http.Server
	HTTP   *http.Server

	gatewayConn *grpc.ClientConn
}

// New creates a new server instance. The gateway is built in Run, once the
// gRPC listener address is known.
func New(
	cfg *config.Config,
	l *zap.Logger,
	svc grpcadapter.UserServiceServer,
	handler *ginhandler.UserHandler,
	healthCheck func(context.Context) error,
) *Server {
	grpcServer, healthServer := SetupGRPC(svc, l)

	return &Server{
		Config: cfg,
		Logger: l,
		GRPC:   grpcServer,
		Health: healthServer,
		Gin:    SetupGinServer(handler, healthFunc(healthCheck), cfg.Logger.ServiceName, cfg.App.Env, ginAddress(cfg), l),
	}
}

func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}

func ginAddress(cfg *config.Config) string {
	return ":" + cfg.App.GinPort
}

// Run serves all three servers until ctx is canceled or one of them fails,
// then shuts them all down within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}

	grpcLis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Config))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	httpLis, err := lc.Listen(ctx, "tcp", httpAddress(s.Config))
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen for HTTP gateway: %w", err)
	}
	ginLis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		_ = grpcLis.Close()
		_ = httpLis.Close()
		return fmt.Errorf("failed to listen for Gin: %w", err)
	}

	gatewayTarget := dialTarget(grpcLis.Addr())
	s.HTTP, s.gatewayConn, err = SetupHTTPGateway(gatewayTarget, httpLis.Addr().String(), s.Config.App.SwaggerSpecPath, s.Logger)
	if err != nil {
		_ = grpcLis.Close()
		_ = httpLis.Close()
		_ = ginLis.Close()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
		if err := s.GRPC.Serve(grpcLis); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("REST gateway running", zap.String("address", httpLis.Addr().String()))
		if err := s.HTTP.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP gateway: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", ginLis.Addr().String()))
		if err := s.Gin.Serve(ginLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gin server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// dialTarget turns a wildcard listener address into one a client can dial.
func dialTarget(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP.IsUnspecified() {
		_, port, err := net.SplitHostPort(addr.String())
		if err == nil {
			return net.JoinHostPort("localhost", port)
		}
	}
	return addr.String()
}

// shutdown gracefully stops every server, forcing the gRPC server down if
// it outlives the timeout.
func (s *Server) shutdown() error {
	timeout := s.Config.App.ShutdownTimeout()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error

	s.Health.Shutdown()

	if s.HTTP != nil {
		s.Logger.Info("shutting down HTTP gateway...")
		if err := s.HTTP.Shutdown(shutdownCtx); err != nil {
			s.Logger.Error("failed to shutdown HTTP gateway", zap.Error(err))
			errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
		}
	}

	if s.Gin != nil {
		s.Logger.Info("shutting down Gin server...")
		if err := s.Gin.Shutdown(shutdownCtx); err != nil {
			s.Logger.Error("failed to shutdown Gin server", zap.Error(err))
			errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
		}
	}

	s.Logger.Info("shutting down gRPC server...")
	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.Logger.Warn("gRPC graceful stop timed out, forcing stop")
		s.GRPC.Stop()
		<-stopped
	}

	if s.gatewayConn != nil {
		if err := s.gatewayConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gateway connection close: %w", err))
		}
	}

	return errors.Join(errs...)
}

// healthFunc adapts a context-based health check to the Gin router.
func healthFunc(check func(context.Context) error) ginrouter.HealthChecker {
	if check == nil {
		return nil
	}
	return func(c *gin.Context) error {
		return check(c.Request.Context())
	}
}
