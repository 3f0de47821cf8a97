package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	v1 "threadscope/api/introspect/v1"
)

type fakeConn struct {
	invoke func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
	if f.invoke != nil {
		return f.invoke(ctx, method, args, reply, opts...)
	}
	return nil
}

func (f *fakeConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeConn) Close() error { return nil }

type dialFunc = func(context.Context, string) (v1.IntrospectionClient, io.Closer, error)

func stubDaemon(t *testing.T, running bool, dial dialFunc) {
	t.Helper()
	resetDaemonDeps()
	daemonIsRunning = func(string) bool { return running }
	if dial == nil {
		dial = func(context.Context, string) (v1.IntrospectionClient, io.Closer, error) {
			return nil, nil, errors.New("dial not stubbed")
		}
	}
	dialDaemonClient = dial
	t.Cleanup(resetDaemonDeps)
}

// serve answers every call with handle(method, args), encoding its result as the reply.
func serve(handle func(method string, args *structpb.Struct) (any, error)) dialFunc {
	return func(context.Context, string) (v1.IntrospectionClient, io.Closer, error) {
		conn := &fakeConn{
			invoke: func(ctx context.Context, method string, args interface{}, reply interface{}, opts ...grpc.CallOption) error {
				in, ok := args.(*structpb.Struct)
				if !ok {
					return fmt.Errorf("unexpected args type %T", args)
				}
				out, ok := reply.(*structpb.Struct)
				if !ok {
					return fmt.Errorf("unexpected reply type %T", reply)
				}
				msg, err := handle(method, in)
				if err != nil {
					return err
				}
				wire, err := v1.Encode(msg)
				if err != nil {
					return err
				}
				out.Fields = wire.Fields
				return nil
			},
		}
		return v1.NewIntrospectionClient(conn), conn, nil
	}
}

func decodeArgs(t *testing.T, args *structpb.Struct, into any) {
	t.Helper()
	if err := v1.Decode(args, into); err != nil {
		t.Fatalf("decode args: %v", err)
	}
}
