package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"userapp/internal/adapter/gateway"
	grpcadapter "userapp/internal/adapter/grpc"
)

// SetupHTTPGateway creates the HTTP gateway server and the client
// connection it forwards through. The caller closes the connection.
func SetupHTTPGateway(grpcAddr, httpAddr, specPath string, l *zap.Logger) (*http.Server, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gateway client: %w", err)
	}

	handler, err := gateway.NewHandler(
		grpcadapter.NewUserServiceClient(conn),
		healthpb.NewHealthClient(conn),
		specPath,
		l,
	)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to register gateway: %w", err)
	}

	l.Info("REST gateway configured", zap.String("address", httpAddr))
	l.Info("Swagger UI available", zap.String("address", httpAddr), zap.String("path", "/swagger/"))

	return &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
	}, conn, nil
}
