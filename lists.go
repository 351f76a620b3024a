package attio

import (
	"context"
	"net/http"
)

var listKind = resourceKind{
	name:        "list",
	pathPattern: "lists",
	idKey:       "list_id",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true},
}

// List is a curated collection of records, the parent scope for entries.
type List struct {
	Resource
}

// Slug returns the list's api_slug.
func (l *List) Slug() string { return l.GetString("api_slug") }

// ListService operates on lists themselves; use Entries for their
// contents.
type ListService struct {
	client *Client
}

// List returns all lists visible to the token.
func (s *ListService) List(ctx context.Context, params ListParams) (*Page[*List], error) {
	if err := listKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "lists", params, func(item map[string]any) (*List, error) {
		res, err := decodeBound(s.client, &listKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &List{Resource: res}, nil
	})
}

// Get fetches a list by ID or slug.
func (s *ListService) Get(ctx context.Context, id Identifier) (*List, error) {
	res, err := getResource(ctx, s.client, &listKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &List{Resource: res}, nil
}

// Create creates a list. name, api_slug and parent_object are required
// by the API.
func (s *ListService) Create(ctx context.Context, values map[string]any) (*List, error) {
	for _, required := range []string{"name", "api_slug", "parent_object"} {
		if _, ok := values[required]; !ok {
			return nil, &InvalidValueError{Attribute: required, Reason: "required"}
		}
	}
	res, err := createResource(ctx, s.client, &listKind, nil, values, nil)
	if err != nil {
		return nil, err
	}
	return &List{Resource: res}, nil
}

// Update renames or reconfigures a list.
func (s *ListService) Update(ctx context.Context, id Identifier, values map[string]any) (*List, error) {
	res, err := updateResource(ctx, s.client, &listKind, nil, id, values, nil)
	if err != nil {
		return nil, err
	}
	return &List{Resource: res}, nil
}
