package types

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages travel as google.protobuf.Struct and are mapped onto the JSON
// shapes above, so HTTP and gRPC callers see the same field names.
// Struct numbers are doubles: integers, ids included, must stay within
// +/-2^53 or ToStruct refuses the message.

const maxExactInteger = 1 << 53

var ErrIntegerOutOfRange = errors.New("integer out of range for a struct message")

const (
	GatewayService_ServiceName = "bayarcash.v1.GatewayService"

	GatewayService_Health_FullMethodName        = "/bayarcash.v1.GatewayService/Health"
	GatewayService_CreatePayment_FullMethodName = "/bayarcash.v1.GatewayService/CreatePayment"
	GatewayService_GetOrder_FullMethodName      = "/bayarcash.v1.GatewayService/GetOrder"
)

type GatewayServiceServer interface {
	Health(context.Context, *HealthRequest) (*HealthResponse, error)
	CreatePayment(context.Context, *CreatePaymentRequest) (*CreatePaymentResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
}

type UnimplementedGatewayServiceServer struct{}

func (UnimplementedGatewayServiceServer) Health(context.Context, *HealthRequest) (*HealthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Health not implemented")
}

func (UnimplementedGatewayServiceServer) CreatePayment(context.Context, *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreatePayment not implemented")
}

func (UnimplementedGatewayServiceServer) GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrder not implemented")
}

func RegisterGatewayServiceServer(s grpc.ServiceRegistrar, srv GatewayServiceServer) {
	s.RegisterService(&GatewayService_ServiceDesc, srv)
}

var GatewayService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: GatewayService_ServiceName,
	HandlerType: (*GatewayServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Health", Handler: _GatewayService_Health_Handler},
		{MethodName: "CreatePayment", Handler: _GatewayService_CreatePayment_Handler},
		{MethodName: "GetOrder", Handler: _GatewayService_GetOrder_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bayarcash/v1/gateway.proto",
}

func _GatewayService_Health_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthRequest)
	if err := decodeStruct(dec, in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GatewayServiceServer).Health(ctx, req.(*HealthRequest))
	}
	return invoke(ctx, srv, in, GatewayService_Health_FullMethodName, handler, interceptor)
}

func _GatewayService_CreatePayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreatePaymentRequest)
	if err := decodeStruct(dec, in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GatewayServiceServer).CreatePayment(ctx, req.(*CreatePaymentRequest))
	}
	return invoke(ctx, srv, in, GatewayService_CreatePayment_FullMethodName, handler, interceptor)
}

func _GatewayService_GetOrder_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetOrderRequest)
	if err := decodeStruct(dec, in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GatewayServiceServer).GetOrder(ctx, req.(*GetOrderRequest))
	}
	return invoke(ctx, srv, in, GatewayService_GetOrder_FullMethodName, handler, interceptor)
}

func invoke(ctx context.Context, srv interface{}, in interface{}, fullMethod string, handler grpc.UnaryHandler, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	var (
		resp interface{}
		err  error
	)
	if interceptor == nil {
		resp, err = handler(ctx, in)
	} else {
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		resp, err = interceptor(ctx, in, info, handler)
	}
	if err != nil {
		return nil, err
	}
	out, err := ToStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func decodeStruct(dec func(interface{}) error, target interface{}) error {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return err
	}
	if err := FromStruct(in, target); err != nil {
		return status.Error(codes.InvalidArgument, "malformed request message")
	}
	return nil
}

// ToStruct converts one of the message types above into its wire form.
func ToStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if err := checkExactIntegers(raw); err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func checkExactIntegers(raw []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		number, ok := token.(json.Number)
		if !ok || strings.ContainsAny(number.String(), ".eE") {
			continue
		}
		n, err := number.Int64()
		if err != nil || n > maxExactInteger || n < -maxExactInteger {
			return fmt.Errorf("%w: %s", ErrIntegerOutOfRange, number)
		}
	}
}

func FromStruct(in *structpb.Struct, target interface{}) error {
	if in == nil {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

type GatewayServiceClient interface {
	Health(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error)
	CreatePayment(ctx context.Context, in *CreatePaymentRequest, opts ...grpc.CallOption) (*CreatePaymentResponse, error)
	GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
}

type gatewayServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewGatewayServiceClient(cc grpc.ClientConnInterface) GatewayServiceClient {
	return &gatewayServiceClient{cc: cc}
}

func (c *gatewayServiceClient) Health(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	out := new(HealthResponse)
	if err := c.call(ctx, GatewayService_Health_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gatewayServiceClient) CreatePayment(ctx context.Context, in *CreatePaymentRequest, opts ...grpc.CallOption) (*CreatePaymentResponse, error) {
	out := new(CreatePaymentResponse)
	if err := c.call(ctx, GatewayService_CreatePayment_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gatewayServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	out := new(OrderResponse)
	if err := c.call(ctx, GatewayService_GetOrder_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gatewayServiceClient) call(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	req, err := ToStruct(in)
	if err != nil {
		return err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	return FromStruct(resp, out)
}
