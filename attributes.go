package attio

import (
	"context"
	"net/http"
)

// Attributes are archived rather than deleted.
var attributeKind = resourceKind{
	name:        "attribute",
	pathPattern: "objects/%s/attributes",
	ctxN:        1,
	idKey:       "attribute_id",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true},
}

// Attribute describes one attribute definition on an object: its
// api_slug, type, cardinality and configuration.
type Attribute struct {
	Resource
}

// Slug returns the attribute's api_slug.
func (a *Attribute) Slug() string { return a.GetString("api_slug") }

// Type returns the attribute's wire type (text, number, personal-name,
// record-reference, ...).
func (a *Attribute) Type() string { return a.GetString("type") }

// IsMultiselect reports whether the attribute holds multiple values.
func (a *Attribute) IsMultiselect() bool { return a.GetBool("is_multiselect") }

// AttributeService operates on attribute definitions, scoped to an
// object slug.
type AttributeService struct {
	client *Client
}

// List returns the attribute definitions of an object.
func (s *AttributeService) List(ctx context.Context, object string, params ListParams) (*Page[*Attribute], error) {
	if err := attributeKind.allow(opList); err != nil {
		return nil, err
	}
	base, err := attributeKind.collectionPath([]string{object})
	if err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, base, params, func(item map[string]any) (*Attribute, error) {
		res, err := decodeBound(s.client, &attributeKind, []string{object}, item, nil)
		if err != nil {
			return nil, err
		}
		return &Attribute{Resource: res}, nil
	})
}

// Get fetches one attribute definition.
func (s *AttributeService) Get(ctx context.Context, object string, id Identifier) (*Attribute, error) {
	res, err := getResource(ctx, s.client, &attributeKind, []string{object}, id, nil)
	if err != nil {
		return nil, err
	}
	return &Attribute{Resource: res}, nil
}

// Create adds an attribute definition to an object. title, api_slug and
// type are required by the API.
func (s *AttributeService) Create(ctx context.Context, object string, values map[string]any) (*Attribute, error) {
	for _, required := range []string{"title", "api_slug", "type"} {
		if _, ok := values[required]; !ok {
			return nil, &InvalidValueError{Attribute: required, Reason: "required"}
		}
	}
	res, err := createResource(ctx, s.client, &attributeKind, []string{object}, values, nil)
	if err != nil {
		return nil, err
	}
	return &Attribute{Resource: res}, nil
}

// Update reshapes an attribute definition.
func (s *AttributeService) Update(ctx context.Context, object string, id Identifier, values map[string]any) (*Attribute, error) {
	res, err := updateResource(ctx, s.client, &attributeKind, []string{object}, id, values, nil)
	if err != nil {
		return nil, err
	}
	return &Attribute{Resource: res}, nil
}

// structuredAttributeTypes are wire types whose values must be supplied
// already shaped on write. Email addresses and phone numbers are absent:
// the API coerces bare strings for those.
var structuredAttributeTypes = map[string]bool{
	"personal-name":   true,
	"domain":          true,
	"currency":        true,
	"location":        true,
	"select":          true,
	"status":          true,
	"actor-reference": true,
	"interaction":     true,
}

// SchemaFor builds a value-normalization Schema from an object's live
// attribute definitions, paging through all of them. Register the result
// with Client.RegisterSchema to drive egress shaping for the object's
// custom attributes.
func (s *AttributeService) SchemaFor(ctx context.Context, object string) (Schema, error) {
	schema := Schema{}
	params := ListParams{Limit: 100}
	for {
		page, err := s.List(ctx, object, params)
		if err != nil {
			return nil, err
		}
		for _, attr := range page.Data {
			meta := AttributeMeta{Multi: attr.IsMultiselect()}
			switch t := attr.Type(); {
			case t == "record-reference":
				meta.Kind = KindReference
				meta.TargetObject = referenceTarget(attr)
			case structuredAttributeTypes[t]:
				meta.Kind = KindStructured
			}
			schema[attr.Slug()] = meta
		}
		if !page.HasMore || page.Cursor == "" {
			return schema, nil
		}
		params.Cursor = page.Cursor
	}
}

// referenceTarget extracts the single allowed object of a
// record-reference attribute, when the config declares exactly one.
func referenceTarget(attr *Attribute) string {
	cfg, _ := attr.Get("config")
	m, ok := cfg.(map[string]any)
	if !ok {
		return ""
	}
	ref, ok := m["record_reference"].(map[string]any)
	if !ok {
		return ""
	}
	allowed, ok := ref["allowed_objects"].([]any)
	if !ok || len(allowed) != 1 {
		return ""
	}
	slug, _ := allowed[0].(string)
	return slug
}
