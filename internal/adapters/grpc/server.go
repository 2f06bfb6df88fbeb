package grpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rollcallhq/rollcall-service/internal/application"
)

// SessionInternalService is the in-cluster API other services call to resolve
// session tokens and read derived ledger activity without going through HTTP.
type SessionInternalService interface {
	ResolveSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecentActivity(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type SessionInternalServer struct {
	service *application.Service
}

func NewSessionInternalServer(service *application.Service) *SessionInternalServer {
	return &SessionInternalServer{service: service}
}

func Register(server grpc.ServiceRegistrar, svc SessionInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "rollcall.session.v1.SessionInternalService",
		HandlerType: (*SessionInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ResolveSession",
				Handler:    resolveSessionHandler(svc),
			},
			{
				MethodName: "RecentActivity",
				Handler:    recentActivityHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "rollcall/contracts/proto/session/v1/session_internal.proto",
	}, svc)
}

func (s *SessionInternalServer) ResolveSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tokenVal := req.GetFields()["token"]
	if tokenVal == nil {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}
	token := tokenVal.GetStringValue()
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	principal, err := s.service.ResolveSession(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid session")
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":          true,
		"account_id":     principal.AccountID.String(),
		"role":           string(principal.Role),
		"is_super_admin": principal.IsSuperAdmin,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func (s *SessionInternalServer) RecentActivity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	idVal := req.GetFields()["account_id"]
	if idVal == nil {
		return nil, status.Error(codes.InvalidArgument, "missing account_id")
	}
	accountID, err := uuid.Parse(idVal.GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "invalid account_id")
	}
	windowDays := 0
	if v := req.GetFields()["window_days"]; v != nil {
		windowDays = int(v.GetNumberValue())
	}

	count, err := s.service.RecentActivityCount(ctx, accountID, windowDays)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "count activity: %v", err)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"account_id": accountID.String(),
		"count":      count,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func resolveSessionHandler(svc SessionInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.ResolveSession(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/rollcall.session.v1.SessionInternalService/ResolveSession",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.ResolveSession(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}

func recentActivityHandler(svc SessionInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.RecentActivity(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/rollcall.session.v1.SessionInternalService/RecentActivity",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.RecentActivity(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
