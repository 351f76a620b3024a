package attio

import (
	"context"
	"net/http"
)

// Objects cannot be deleted through the API, only created and reshaped.
var objectKind = resourceKind{
	name:        "object",
	pathPattern: "objects",
	idKey:       "object_id",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true},
}

// Object describes an object type in the workspace (people, companies,
// or a custom object). Attributes include api_slug, singular_noun and
// plural_noun.
type Object struct {
	Resource
}

// Slug returns the object's api_slug.
func (o *Object) Slug() string { return o.GetString("api_slug") }

// ObjectService operates on workspace object definitions.
type ObjectService struct {
	client *Client
}

// List returns all objects in the workspace.
func (s *ObjectService) List(ctx context.Context, params ListParams) (*Page[*Object], error) {
	if err := objectKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "objects", params, func(item map[string]any) (*Object, error) {
		res, err := decodeBound(s.client, &objectKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &Object{Resource: res}, nil
	})
}

// Get fetches an object by ID or slug.
func (s *ObjectService) Get(ctx context.Context, id Identifier) (*Object, error) {
	res, err := getResource(ctx, s.client, &objectKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &Object{Resource: res}, nil
}

// Create defines a new custom object. api_slug, singular_noun and
// plural_noun are required by the API.
func (s *ObjectService) Create(ctx context.Context, values map[string]any) (*Object, error) {
	for _, required := range []string{"api_slug", "singular_noun", "plural_noun"} {
		if _, ok := values[required]; !ok {
			return nil, &InvalidValueError{Attribute: required, Reason: "required"}
		}
	}
	res, err := createResource(ctx, s.client, &objectKind, nil, values, nil)
	if err != nil {
		return nil, err
	}
	return &Object{Resource: res}, nil
}

// Update reshapes an object definition.
func (s *ObjectService) Update(ctx context.Context, id Identifier, values map[string]any) (*Object, error) {
	res, err := updateResource(ctx, s.client, &objectKind, nil, id, values, nil)
	if err != nil {
		return nil, err
	}
	return &Object{Resource: res}, nil
}
