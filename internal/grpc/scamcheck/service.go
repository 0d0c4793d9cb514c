// Package scamcheck exposes the analysis service over gRPC. The service is
// described by hand with well-known protobuf types, so no generated code is
// needed:
//
//	service ScamCheck {
//	  rpc Analyze(google.protobuf.StringValue) returns (google.protobuf.Struct);
//	}
//
// The source channel travels in the "x-scamguard-channel" metadata key.
package scamcheck

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "scamguard.v1.ScamCheck"

	// AnalyzeMethod is the full method name of Analyze
	AnalyzeMethod = "/" + ServiceName + "/Analyze"

	// ChannelMetadataKey carries the source channel of the analyzed text
	ChannelMetadataKey = "x-scamguard-channel"
)

// ScamCheckServer is the server API for the ScamCheck service
type ScamCheckServer interface {
	Analyze(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc is the grpc.ServiceDesc for the ScamCheck service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScamCheckServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Analyze",
			Handler:    analyzeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scamguard/v1/scamcheck.proto",
}

// RegisterScamCheckServer registers srv with s
func RegisterScamCheckServer(s grpc.ServiceRegistrar, srv ScamCheckServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func analyzeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScamCheckServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AnalyzeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScamCheckServer).Analyze(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the ScamCheck service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a ScamCheck client over cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Analyze scores text remotely. channel may be empty.
func (c *Client) Analyze(ctx context.Context, text, channel string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if channel != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, ChannelMetadataKey, channel)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeMethod, wrapperspb.String(text), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
