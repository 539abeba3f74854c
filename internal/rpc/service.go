// Package rpc exposes a wheel over gRPC as service spinwheel.v1.Wheel.
//
// Messages are protobuf well-known types so no generated code is needed:
// requests and replies are google.protobuf.Struct values and parameterless
// calls take google.protobuf.Empty.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "spinwheel.v1.Wheel"

const (
	methodListOptions  = "/" + ServiceName + "/ListOptions"
	methodAddOption    = "/" + ServiceName + "/AddOption"
	methodUpdateOption = "/" + ServiceName + "/UpdateOption"
	methodDeleteOption = "/" + ServiceName + "/DeleteOption"
	methodSpin         = "/" + ServiceName + "/Spin"
)

// WheelServer is the server API for spinwheel.v1.Wheel.
type WheelServer interface {
	// ListOptions replies {"options": [{label, weight, percent, color}]}.
	ListOptions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// AddOption takes {label?, weight?} and replies like ListOptions.
	AddOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// UpdateOption takes {index, label?, weight?, op?} where op is
	// "increment" or "decrement".
	UpdateOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// DeleteOption takes {index}.
	DeleteOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Spin streams {"type":"frame"} messages followed by one
	// {"type":"selection"}, or a single {"type":"ignored"}.
	Spin(*emptypb.Empty, Wheel_SpinServer) error
}

type Wheel_SpinServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type wheelSpinServer struct {
	grpc.ServerStream
}

func (x *wheelSpinServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func unary[Req any](call func(WheelServer, context.Context, *Req) (*structpb.Struct, error), method string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WheelServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WheelServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func spinHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(WheelServer).Spin(m, &wheelSpinServer{stream})
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WheelServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListOptions",
			Handler:    unary(WheelServer.ListOptions, methodListOptions),
		},
		{
			MethodName: "AddOption",
			Handler:    unary(WheelServer.AddOption, methodAddOption),
		},
		{
			MethodName: "UpdateOption",
			Handler:    unary(WheelServer.UpdateOption, methodUpdateOption),
		},
		{
			MethodName: "DeleteOption",
			Handler:    unary(WheelServer.DeleteOption, methodDeleteOption),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Spin",
			Handler:       spinHandler,
			ServerStreams: true,
		},
	},
	Metadata: "spinwheel/v1/wheel.proto",
}

func RegisterWheelServer(s grpc.ServiceRegistrar, srv WheelServer) {
	s.RegisterService(&ServiceDesc, srv)
}
