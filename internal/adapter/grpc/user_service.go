package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	domain "userapp/internal/domain/user"
	"userapp/internal/usecase/user"
	apperrors "userapp/pkg/errors"
	"userapp/pkg/logger"
)

var _ UserServiceServer = (*UserService)(nil)

// UserService implements the gRPC user service on top of the user usecase.
type UserService struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserService creates a new gRPC user service
func NewUserService(uc user.Usecase, log *zap.Logger) *UserService {
	return &UserService{uc: uc, log: log}
}

// CreateUser handles gRPC CreateUser request
func (s *UserService) CreateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeUserDto(req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := s.uc.CreateUser(ctx, in)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeStruct(ctx, out)
}

// GetUser handles gRPC GetUser request
func (s *UserService) GetUser(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	out, err := s.uc.GetUser(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeStruct(ctx, out)
}

// ListUsers handles gRPC ListUsers request
func (s *UserService) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	out, err := s.uc.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeList(ctx, out)
}

// ListUsersPaged handles gRPC ListUsersPaged request
func (s *UserService) ListUsersPaged(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var pr pageRequest
	if err := fromStruct(req, &pr); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	page, size, err := pr.pageAndSize()
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := s.uc.ListUsersPaged(ctx, page, size)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeStruct(ctx, out)
}

// SearchUsers handles gRPC SearchUsers request
func (s *UserService) SearchUsers(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	out, err := s.uc.SearchUsers(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeList(ctx, out)
}

// SearchUsersPaged handles gRPC SearchUsersPaged request
func (s *UserService) SearchUsersPaged(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var pr pageRequest
	if err := fromStruct(req, &pr); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if pr.Query == nil {
		return nil, s.toStatus(ctx, apperrors.NewValidationError("q", "is required"))
	}
	page, size, err := pr.pageAndSize()
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := s.uc.SearchUsersPaged(ctx, *pr.Query, domain.Pageable{Page: page, Size: size})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeStruct(ctx, out)
}

// UpdateUser handles gRPC UpdateUser request
func (s *UserService) UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var ur updateRequest
	if err := fromStruct(req, &ur); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if ur.ID == nil {
		return nil, s.toStatus(ctx, apperrors.NewValidationError("id", "is required"))
	}

	var in user.UserDto
	if len(ur.User) > 0 {
		if err := json.Unmarshal(ur.User, &in); err != nil {
			return nil, s.toStatus(ctx, apperrors.NewValidationError("user", "must be a user object"))
		}
	}
	if err := user.ViolationError(user.ValidateUserDto(in)); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out, err := s.uc.UpdateUser(ctx, in, int64(*ur.ID))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encodeStruct(ctx, out)
}

// DeleteUser handles gRPC DeleteUser request and echoes the deleted id.
func (s *UserService) DeleteUser(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error) {
	if err := s.uc.DeleteUser(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return wrapperspb.Int64(req.GetValue()), nil
}

func decodeUserDto(req *structpb.Struct) (user.UserDto, error) {
	var in user.UserDto
	if err := fromStruct(req, &in); err != nil {
		return user.UserDto{}, err
	}
	if err := user.ViolationError(user.ValidateUserDto(in)); err != nil {
		return user.UserDto{}, err
	}
	return in, nil
}

// toStatus keeps typed application errors (they carry their own status) and
// hides anything else behind codes.Internal.
func (s *UserService) toStatus(ctx context.Context, err error) error {
	var statuser apperrors.GRPCStatuser
	if errors.As(err, &statuser) {
		return statuser.GRPCStatus().Err()
	}
	logger.WithContext(ctx, s.log).Error("unexpected error", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func (s *UserService) encodeStruct(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func (s *UserService) encodeList(ctx context.Context, v any) (*structpb.ListValue, error) {
	out, err := toListValue(v)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}
