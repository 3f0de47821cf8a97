// Package introspectv1 defines the introspection RPC surface. Messages travel as
// google.protobuf.Struct values and are mapped onto the plain Go types below.
package introspectv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"threadscope/internal/threads"
)

// Thread describes one live thread.
type Thread struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// Group describes one group.
type Group struct {
	Name      string `json:"name"`
	Parent    string `json:"parent,omitempty"`
	Destroyed bool   `json:"destroyed,omitempty"`
}

type PingRequest struct{}

type PingResponse struct {
	Ok string `json:"ok"`
}

// ListThreadsRequest filters by thread name and/or group name. Both are optional.
type ListThreadsRequest struct {
	Name  string `json:"name,omitempty"`
	Group string `json:"group,omitempty"`
}

type ListThreadsResponse struct {
	Threads []Thread `json:"threads"`
}

// ListGroupsRequest filters by group name when Name is set.
type ListGroupsRequest struct {
	Name string `json:"name,omitempty"`
}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// FindThreadRequest looks a thread up by id, optionally inside groups named Group.
type FindThreadRequest struct {
	ID    int64  `json:"id"`
	Group string `json:"group,omitempty"`
}

type FindThreadResponse struct {
	Found  bool    `json:"found"`
	Thread *Thread `json:"thread,omitempty"`
}

type TreeRequest struct{}

type TreeResponse struct {
	Root threads.Node `json:"root"`
}

// DumpRequest asks the daemon to write its tree to Path, or to its configured path.
type DumpRequest struct {
	Path string `json:"path,omitempty"`
}

type DumpResponse struct {
	Path string `json:"path"`
}

// Encode converts a message into its wire form.
func Encode(msg any) (*structpb.Struct, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	return structpb.NewStruct(fields)
}

// Decode fills msg from its wire form. A nil struct leaves msg untouched.
func Decode(s *structpb.Struct, msg any) error {
	if s == nil {
		return nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	if err := json.Unmarshal(b, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
