package grpc

import (
	"context"
	"errors"

	"github.com/vibast-solutions/ms-go-bayarcash/app/mapper"
	"github.com/vibast-solutions/ms-go-bayarcash/app/service"
	"github.com/vibast-solutions/ms-go-bayarcash/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	types.UnimplementedGatewayServiceServer
	paymentService *service.PaymentService
}

func NewServer(paymentService *service.PaymentService) *Server {
	return &Server{paymentService: paymentService}
}

func (s *Server) Health(_ context.Context, _ *types.HealthRequest) (*types.HealthResponse, error) {
	return &types.HealthResponse{Status: "ok"}, nil
}

func (s *Server) CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*types.CreatePaymentResponse, error) {
	l := loggerWithContext(ctx)
	if err := req.Validate(); err != nil {
		l.WithError(err).Debug("Create payment validation failed")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result, err := s.paymentService.CreatePayment(ctx, req)
	if err != nil {
		var gwErr *service.GatewayError
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		case errors.Is(err, service.ErrNotConfigured):
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrTransactionNotFound):
			return nil, status.Error(codes.NotFound, err.Error())
		case errors.As(err, &gwErr):
			l.WithError(err).Warn("Payment intent was not created")
			return nil, status.Error(codes.Unavailable, gwErr.Error())
		default:
			l.WithError(err).Error("Create payment failed")
			return nil, status.Error(codes.Internal, "internal server error")
		}
	}

	return mapper.PaymentResultToResponse(result), nil
}

func (s *Server) GetOrder(ctx context.Context, req *types.GetOrderRequest) (*types.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	view, err := s.paymentService.GetOrder(ctx, req.GetID())
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return nil, status.Error(codes.NotFound, "order not found")
		}
		loggerWithContext(ctx).WithError(err).Error("Get order failed")
		return nil, status.Error(codes.Internal, "internal server error")
	}

	return mapper.OrderViewToResponse(view), nil
}
