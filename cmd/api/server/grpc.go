package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "userapp/internal/adapter/grpc"
	"userapp/internal/adapter/grpc/middleware"
	"userapp/pkg/logger"
)

// SetupGRPC creates the gRPC server with the user service and the standard
// health service registered.
func SetupGRPC(svc grpcadapter.UserServiceServer, l *zap.Logger) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.RecoveryInterceptor(l),
			middleware.LoggingInterceptor(l),
		),
	)
	grpcadapter.RegisterUserServiceServer(grpcServer, svc)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return grpcServer, healthServer
}
