package introspectv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "threadscope.v1.Introspection"

const (
	PingMethod        = "/" + ServiceName + "/Ping"
	ListThreadsMethod = "/" + ServiceName + "/ListThreads"
	ListGroupsMethod  = "/" + ServiceName + "/ListGroups"
	FindThreadMethod  = "/" + ServiceName + "/FindThread"
	TreeMethod        = "/" + ServiceName + "/Tree"
	DumpMethod        = "/" + ServiceName + "/Dump"
)

// IntrospectionClient is the client API for the introspection service.
type IntrospectionClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	ListThreads(ctx context.Context, in *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error)
	ListGroups(ctx context.Context, in *ListGroupsRequest, opts ...grpc.CallOption) (*ListGroupsResponse, error)
	FindThread(ctx context.Context, in *FindThreadRequest, opts ...grpc.CallOption) (*FindThreadResponse, error)
	Tree(ctx context.Context, in *TreeRequest, opts ...grpc.CallOption) (*TreeResponse, error)
	Dump(ctx context.Context, in *DumpRequest, opts ...grpc.CallOption) (*DumpResponse, error)
}

type introspectionClient struct {
	cc grpc.ClientConnInterface
}

// NewIntrospectionClient wraps a connection.
func NewIntrospectionClient(cc grpc.ClientConnInterface) IntrospectionClient {
	return &introspectionClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	if in == nil {
		in = new(Req)
	}
	wireIn, err := Encode(in)
	if err != nil {
		return nil, err
	}
	wireOut := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, wireIn, wireOut, opts...); err != nil {
		return nil, err
	}
	out := new(Resp)
	if err := Decode(wireOut, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *introspectionClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, PingMethod, in, opts...)
}

func (c *introspectionClient) ListThreads(ctx context.Context, in *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error) {
	return invoke[ListThreadsRequest, ListThreadsResponse](ctx, c.cc, ListThreadsMethod, in, opts...)
}

func (c *introspectionClient) ListGroups(ctx context.Context, in *ListGroupsRequest, opts ...grpc.CallOption) (*ListGroupsResponse, error) {
	return invoke[ListGroupsRequest, ListGroupsResponse](ctx, c.cc, ListGroupsMethod, in, opts...)
}

func (c *introspectionClient) FindThread(ctx context.Context, in *FindThreadRequest, opts ...grpc.CallOption) (*FindThreadResponse, error) {
	return invoke[FindThreadRequest, FindThreadResponse](ctx, c.cc, FindThreadMethod, in, opts...)
}

func (c *introspectionClient) Tree(ctx context.Context, in *TreeRequest, opts ...grpc.CallOption) (*TreeResponse, error) {
	return invoke[TreeRequest, TreeResponse](ctx, c.cc, TreeMethod, in, opts...)
}

func (c *introspectionClient) Dump(ctx context.Context, in *DumpRequest, opts ...grpc.CallOption) (*DumpResponse, error) {
	return invoke[DumpRequest, DumpResponse](ctx, c.cc, DumpMethod, in, opts...)
}

// IntrospectionServer is the server API for the introspection service.
type IntrospectionServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error)
	ListGroups(context.Context, *ListGroupsRequest) (*ListGroupsResponse, error)
	FindThread(context.Context, *FindThreadRequest) (*FindThreadResponse, error)
	Tree(context.Context, *TreeRequest) (*TreeResponse, error)
	Dump(context.Context, *DumpRequest) (*DumpResponse, error)
}

// UnimplementedIntrospectionServer can be embedded to satisfy IntrospectionServer.
type UnimplementedIntrospectionServer struct{}

func (UnimplementedIntrospectionServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedIntrospectionServer) ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListThreads not implemented")
}

func (UnimplementedIntrospectionServer) ListGroups(context.Context, *ListGroupsRequest) (*ListGroupsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListGroups not implemented")
}

func (UnimplementedIntrospectionServer) FindThread(context.Context, *FindThreadRequest) (*FindThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindThread not implemented")
}

func (UnimplementedIntrospectionServer) Tree(context.Context, *TreeRequest) (*TreeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Tree not implemented")
}

func (UnimplementedIntrospectionServer) Dump(context.Context, *DumpRequest) (*DumpResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Dump not implemented")
}

// RegisterIntrospectionServer attaches srv to s.
func RegisterIntrospectionServer(s grpc.ServiceRegistrar, srv IntrospectionServer) {
	s.RegisterService(&serviceDesc, srv)
}

func unary[Req, Resp any](method string, call func(IntrospectionServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		wireIn := new(structpb.Struct)
		if err := dec(wireIn); err != nil {
			return nil, err
		}
		in := new(Req)
		if err := Decode(wireIn, in); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		handler := func(ctx context.Context, req any) (any, error) {
			out, err := call(srv.(IntrospectionServer), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			return Encode(out)
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IntrospectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(PingMethod, IntrospectionServer.Ping)},
		{MethodName: "ListThreads", Handler: unary(ListThreadsMethod, IntrospectionServer.ListThreads)},
		{MethodName: "ListGroups", Handler: unary(ListGroupsMethod, IntrospectionServer.ListGroups)},
		{MethodName: "FindThread", Handler: unary(FindThreadMethod, IntrospectionServer.FindThread)},
		{MethodName: "Tree", Handler: unary(TreeMethod, IntrospectionServer.Tree)},
		{MethodName: "Dump", Handler: unary(DumpMethod, IntrospectionServer.Dump)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "threadscope/v1/introspection",
}
