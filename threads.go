package attio

import (
	"context"
	"net/http"
)

// Threads are read-only: they come into being through comments.
var threadKind = resourceKind{
	name:        "thread",
	pathPattern: "threads",
	idKey:       "thread_id",
	caps:        Capabilities{Retrieve: true, List: true},
}

// Thread is a comment thread on a record or list entry. Its attributes
// include the comments themselves.
type Thread struct {
	Resource
}

// ThreadService reads comment threads.
type ThreadService struct {
	client *Client
}

// List returns threads, paginated.
func (s *ThreadService) List(ctx context.Context, params ListParams) (*Page[*Thread], error) {
	if err := threadKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "threads", params, func(item map[string]any) (*Thread, error) {
		res, err := decodeBound(s.client, &threadKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &Thread{Resource: res}, nil
	})
}

// Get fetches one thread with its comments.
func (s *ThreadService) Get(ctx context.Context, id Identifier) (*Thread, error) {
	res, err := getResource(ctx, s.client, &threadKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &Thread{Resource: res}, nil
}
