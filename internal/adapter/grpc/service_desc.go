package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "userapp.v1.UserService"

// Full method names of the user service.
const (
	UserService_CreateUser_FullMethodName       = "/" + ServiceName + "/CreateUser"
	UserService_GetUser_FullMethodName          = "/" + ServiceName + "/GetUser"
	UserService_ListUsers_FullMethodName        = "/" + ServiceName + "/ListUsers"
	UserService_ListUsersPaged_FullMethodName   = "/" + ServiceName + "/ListUsersPaged"
	UserService_SearchUsers_FullMethodName      = "/" + ServiceName + "/SearchUsers"
	UserService_SearchUsersPaged_FullMethodName = "/" + ServiceName + "/SearchUsersPaged"
	UserService_UpdateUser_FullMethodName       = "/" + ServiceName + "/UpdateUser"
	UserService_DeleteUser_FullMethodName       = "/" + ServiceName + "/DeleteUser"
)

// UserServiceServer is the server API for the user service.
//
// Messages are protobuf well-known types whose JSON shape matches the REST API:
// users and pages travel as google.protobuf.Struct, lists as ListValue.
type UserServiceServer interface {
	// CreateUser takes {firstName,lastName,email} and returns the stored user.
	CreateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListUsers(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// ListUsersPaged takes {page,size} and returns a page object.
	ListUsersPaged(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchUsers(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	// SearchUsersPaged takes {q,page,size} and returns a page object.
	SearchUsersPaged(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// UpdateUser takes {id,user:{firstName,lastName,email}}.
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// DeleteUser returns the deleted id.
	DeleteUser(context.Context, *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error)
}

// RegisterUserServiceServer registers srv with s.
func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req proto.Message, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(UserServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newInt64() *wrapperspb.Int64Value { return &wrapperspb.Int64Value{} }
func newString() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }
func newEmpty() *emptypb.Empty { return &emptypb.Empty{} }

// UserService_ServiceDesc is the grpc.ServiceDesc for the user service.
var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler:    unary(UserService_CreateUser_FullMethodName, newStruct, UserServiceServer.CreateUser),
		},
		{
			MethodName: "GetUser",
			Handler:    unary(UserService_GetUser_FullMethodName, newInt64, UserServiceServer.GetUser),
		},
		{
			MethodName: "ListUsers",
			Handler:    unary(UserService_ListUsers_FullMethodName, newEmpty, UserServiceServer.ListUsers),
		},
		{
			MethodName: "ListUsersPaged",
			Handler:    unary(UserService_ListUsersPaged_FullMethodName, newStruct, UserServiceServer.ListUsersPaged),
		},
		{
			MethodName: "SearchUsers",
			Handler:    unary(UserService_SearchUsers_FullMethodName, newString, UserServiceServer.SearchUsers),
		},
		{
			MethodName: "SearchUsersPaged",
			Handler:    unary(UserService_SearchUsersPaged_FullMethodName, newStruct, UserServiceServer.SearchUsersPaged),
		},
		{
			MethodName: "UpdateUser",
			Handler:    unary(UserService_UpdateUser_FullMethodName, newStruct, UserServiceServer.UpdateUser),
		},
		{
			MethodName: "DeleteUser",
			Handler:    unary(UserService_DeleteUser_FullMethodName, newInt64, UserServiceServer.DeleteUser),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userapp/v1/user.proto",
}

// UserServiceClient is the client API for the user service.
type UserServiceClient interface {
	CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetUser(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	ListUsersPaged(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SearchUsers(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	SearchUsersPaged(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteUser(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error)
}

type userServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewUserServiceClient returns a client for the user service on cc.
func NewUserServiceClient(cc grpc.ClientConnInterface) UserServiceClient {
	return &userServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userServiceClient) CreateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, UserService_CreateUser_FullMethodName, in, opts)
}

func (c *userServiceClient) GetUser(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, UserService_GetUser_FullMethodName, in, opts)
}

func (c *userServiceClient) ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, UserService_ListUsers_FullMethodName, in, opts)
}

func (c *userServiceClient) ListUsersPaged(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, UserService_ListUsersPaged_FullMethodName, in, opts)
}

func (c *userServiceClient) SearchUsers(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, UserService_SearchUsers_FullMethodName, in, opts)
}

func (c *userServiceClient) SearchUsersPaged(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, UserService_SearchUsersPaged_FullMethodName, in, opts)
}

func (c *userServiceClient) UpdateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, UserService_UpdateUser_FullMethodName, in, opts)
}

func (c *userServiceClient) DeleteUser(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	return invoke[wrapperspb.Int64Value](ctx, c.cc, UserService_DeleteUser_FullMethodName, in, opts)
}
