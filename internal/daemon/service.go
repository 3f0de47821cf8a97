package daemon

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	v1 "threadscope/api/introspect/v1"
	"threadscope/internal/errors"
	"threadscope/internal/registry"
	"threadscope/internal/threads"
)

// service implements the introspection gRPC service over an Inspector.
type service struct {
	v1.UnimplementedIntrospectionServer

	insp     *threads.Inspector
	dumpPath string
	log      *zap.Logger
}

func newService(insp *threads.Inspector, dumpPath string, log *zap.Logger) *service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{insp: insp, dumpPath: dumpPath, log: log}
}

func (s *service) Ping(context.Context, *v1.PingRequest) (*v1.PingResponse, error) {
	return &v1.PingResponse{Ok: "pong"}, nil
}

func (s *service) ListThreads(ctx context.Context, req *v1.ListThreadsRequest) (*v1.ListThreadsResponse, error) {
	var (
		found []threads.Thread
		err   error
	)
	switch {
	case req.Name == "" && req.Group == "":
		found, err = s.insp.AllThreads(ctx)
	case req.Group == "":
		found, err = s.insp.ThreadsByName(ctx, req.Name)
	case req.Name == "":
		found, err = s.threadsInGroupsNamed(ctx, req.Group)
	default:
		found, err = s.insp.ThreadsByNameInGroupNamed(ctx, req.Name, req.Group)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &v1.ListThreadsResponse{Threads: make([]v1.Thread, 0, len(found))}
	for _, t := range found {
		resp.Threads = append(resp.Threads, threadView(t))
	}
	return resp, nil
}

func (s *service) threadsInGroupsNamed(ctx context.Context, name string) ([]threads.Thread, error) {
	groups, err := s.insp.GroupsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if groups, err = threads.OutermostGroups(groups); err != nil {
		return nil, err
	}
	c := threads.NewCollector(threads.AlwaysTrue[threads.Thread]())
	for _, g := range groups {
		if _, err := s.insp.VisitThreads(g, true, c); err != nil {
			return nil, err
		}
	}
	return c.Results(), nil
}

func (s *service) ListGroups(ctx context.Context, req *v1.ListGroupsRequest) (*v1.ListGroupsResponse, error) {
	var (
		found []threads.Group
		err   error
	)
	if req.Name == "" {
		found, err = s.insp.AllGroups(ctx)
	} else {
		found, err = s.insp.GroupsByName(ctx, req.Name)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &v1.ListGroupsResponse{Groups: make([]v1.Group, 0, len(found))}
	for _, g := range found {
		view, err := groupView(g)
		if err != nil {
			return nil, toStatus(err)
		}
		resp.Groups = append(resp.Groups, view)
	}
	return resp, nil
}

func (s *service) FindThread(ctx context.Context, req *v1.FindThreadRequest) (*v1.FindThreadResponse, error) {
	var (
		t   threads.Thread
		ok  bool
		err error
	)
	if req.Group == "" {
		t, ok, err = s.insp.ThreadByID(ctx, req.ID)
	} else {
		t, ok, err = s.insp.ThreadByIDInGroupNamed(ctx, req.ID, req.Group)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	if !ok {
		return &v1.FindThreadResponse{}, nil
	}
	view := threadView(t)
	return &v1.FindThreadResponse{Found: true, Thread: &view}, nil
}

func (s *service) Tree(ctx context.Context, _ *v1.TreeRequest) (*v1.TreeResponse, error) {
	root, err := s.insp.Tree(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &v1.TreeResponse{Root: root}, nil
}

func (s *service) Dump(ctx context.Context, req *v1.DumpRequest) (*v1.DumpResponse, error) {
	path := req.Path
	if path == "" {
		path = s.dumpPath
	}
	if path == "" {
		return nil, status.Error(codes.InvalidArgument, "dump path is required")
	}
	root, err := s.insp.Tree(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := writeDump(path, root); err != nil {
		s.log.Error("dump failed", zap.String("path", path), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "dump failed: %v", err)
	}
	s.log.Info("tree dumped", zap.String("path", path))
	return &v1.DumpResponse{Path: path}, nil
}

func threadView(t threads.Thread) v1.Thread {
	view := v1.Thread{ID: t.ID(), Name: t.Name()}
	if rt, ok := t.(*registry.Thread); ok {
		view.Group = rt.Group().Name()
	}
	return view
}

func groupView(g threads.Group) (v1.Group, error) {
	view := v1.Group{Name: g.Name(), Destroyed: g.Destroyed()}
	parent, err := g.Parent()
	if err != nil {
		return v1.Group{}, err
	}
	if parent != nil {
		view.Parent = parent.Name()
	}
	return view, nil
}

// toStatus maps domain errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case errors.IsError(err, threads.ErrInvalidArgument), errors.IsError(err, threads.ErrNilArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.IsError(err, registry.ErrAccessDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
