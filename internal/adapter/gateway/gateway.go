// Package gateway exposes the gRPC user service as JSON over HTTP.
//
// Routes are registered on a grpc-gateway ServeMux by hand:
//
//	POST   /v1/users
//	GET    /v1/users[?page=&size=]
//	GET    /v1/users/{id}
//	PUT    /v1/users/{id}
//	DELETE /v1/users/{id}
//	GET    /v1/search/users?q=[&page=&size=]
//	GET    /healthz
package gateway

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	grpcadapter "userapp/internal/adapter/grpc"
	"userapp/pkg/logger"
)

const swaggerJSONPath = "/swagger/user.swagger.json"

type gateway struct {
	mux    *runtime.ServeMux
	client grpcadapter.UserServiceClient
}

type call func(ctx context.Context, r *http.Request, params map[string]string, inbound runtime.Marshaler) (proto.Message, error)

// NewHandler builds the gateway routes plus Swagger UI. specPath is the
// OpenAPI document served at /swagger/user.swagger.json.
func NewHandler(client grpcadapter.UserServiceClient, health healthpb.HealthClient, specPath string, log *zap.Logger) (http.Handler, error) {
	g := &gateway{
		mux: runtime.NewServeMux(
			runtime.WithIncomingHeaderMatcher(headerMatcher),
			runtime.WithHealthzEndpoint(health),
		),
		client: client,
	}

	routes := []struct {
		method, pattern, rpc string
		fn                   call
	}{
		{http.MethodPost, "/v1/users", grpcadapter.UserService_CreateUser_FullMethodName, g.createUser},
		{http.MethodGet, "/v1/users", grpcadapter.UserService_ListUsers_FullMethodName, g.listUsers},
		{http.MethodGet, "/v1/users/{id}", grpcadapter.UserService_GetUser_FullMethodName, g.getUser},
		{http.MethodPut, "/v1/users/{id}", grpcadapter.UserService_UpdateUser_FullMethodName, g.updateUser},
		{http.MethodDelete, "/v1/users/{id}", grpcadapter.UserService_DeleteUser_FullMethodName, g.deleteUser},
		{http.MethodGet, "/v1/search/users", grpcadapter.UserService_SearchUsers_FullMethodName, g.searchUsers},
	}
	for _, rt := range routes {
		if err := g.handle(rt.method, rt.pattern, rt.rpc, rt.fn); err != nil {
			return nil, err
		}
	}

	httpMux := http.NewServeMux()
	httpMux.HandleFunc(swaggerJSONPath, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, specPath)
	})
	httpMux.HandleFunc("/swagger/", httpSwagger.Handler(
		httpSwagger.URL(swaggerJSONPath),
	))
	httpMux.Handle("/", g.mux)

	log.Debug("gateway routes registered", zap.Int("routes", len(routes)), zap.String("swagger_spec", specPath))
	return httpMux, nil
}

// headerMatcher forwards X-Request-ID so gRPC logs share the HTTP request ID.
func headerMatcher(key string) (string, bool) {
	if strings.EqualFold(key, logger.RequestIDHeader) {
		return strings.ToLower(key), true
	}
	return runtime.DefaultHeaderMatcher(key)
}

func (g *gateway) handle(method, pattern, rpc string, fn call) error {
	return g.mux.HandlePath(method, pattern, func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		inbound, outbound := runtime.MarshalerForRequest(g.mux, r)

		ctx, err := runtime.AnnotateContext(r.Context(), g.mux, r, rpc, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			runtime.HTTPError(r.Context(), g.mux, outbound, w, r, err)
			return
		}

		resp, err := fn(ctx, r, params, inbound)
		if err != nil {
			runtime.HTTPError(ctx, g.mux, outbound, w, r, err)
			return
		}

		runtime.ForwardResponseMessage(ctx, g.mux, outbound, w, r, resp)
	})
}

func (g *gateway) createUser(ctx context.Context, r *http.Request, _ map[string]string, inbound runtime.Marshaler) (proto.Message, error) {
	body, err := decodeBody(r, inbound)
	if err != nil {
		return nil, err
	}
	return g.client.CreateUser(ctx, body)
}

func (g *gateway) listUsers(ctx context.Context, r *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
	if !isPaged(r) {
		return g.client.ListUsers(ctx, &emptypb.Empty{})
	}
	req, err := pageStruct(r, nil)
	if err != nil {
		return nil, err
	}
	return g.client.ListUsersPaged(ctx, req)
}

func (g *gateway) getUser(ctx context.Context, _ *http.Request, params map[string]string, _ runtime.Marshaler) (proto.Message, error) {
	id, err := pathID(params)
	if err != nil {
		return nil, err
	}
	return g.client.GetUser(ctx, wrapperspb.Int64(id))
}

func (g *gateway) updateUser(ctx context.Context, r *http.Request, params map[string]string, inbound runtime.Marshaler) (proto.Message, error) {
	id, err := pathID(params)
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(r, inbound)
	if err != nil {
		return nil, err
	}
	return g.client.UpdateUser(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":   structpb.NewStringValue(strconv.FormatInt(id, 10)),
		"user": structpb.NewStructValue(body),
	}})
}

func (g *gateway) deleteUser(ctx context.Context, _ *http.Request, params map[string]string, _ runtime.Marshaler) (proto.Message, error) {
	id, err := pathID(params)
	if err != nil {
		return nil, err
	}
	return g.client.DeleteUser(ctx, wrapperspb.Int64(id))
}

func (g *gateway) searchUsers(ctx context.Context, r *http.Request, _ map[string]string, _ runtime.Marshaler) (proto.Message, error) {
	query := r.URL.Query()
	if !query.Has("q") {
		return nil, status.Error(codes.InvalidArgument, "query parameter q is required")
	}
	q := query.Get("q")

	if !isPaged(r) {
		return g.client.SearchUsers(ctx, wrapperspb.String(q))
	}
	req, err := pageStruct(r, &q)
	if err != nil {
		return nil, err
	}
	return g.client.SearchUsersPaged(ctx, req)
}

func decodeBody(r *http.Request, inbound runtime.Marshaler) (*structpb.Struct, error) {
	body := &structpb.Struct{}
	if err := inbound.NewDecoder(r.Body).Decode(body); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "request body must be a JSON object: %v", err)
	}
	return body, nil
}

func pathID(params map[string]string) (int64, error) {
	id, err := strconv.ParseInt(params["id"], 10, 64)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, "User ID must be a valid number")
	}
	return id, nil
}

func isPaged(r *http.Request) bool {
	query := r.URL.Query()
	return query.Has("page") || query.Has("size")
}

// pageStruct builds the {q,page,size} argument object. Integers travel as
// strings so they survive the double-typed Struct. Absent page or size stay
// absent and are rejected by the service.
func pageStruct(r *http.Request, q *string) (*structpb.Struct, error) {
	fields := map[string]*structpb.Value{}
	if q != nil {
		fields["q"] = structpb.NewStringValue(*q)
	}

	query := r.URL.Query()
	for _, name := range []string{"page", "size"} {
		if !query.Has(name) {
			continue
		}
		n, err := strconv.Atoi(query.Get(name))
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "query parameter %s must be an integer", name)
		}
		fields[name] = structpb.NewStringValue(strconv.Itoa(n))
	}
	return &structpb.Struct{Fields: fields}, nil
}
