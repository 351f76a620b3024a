package attio

import (
	"context"
	"net/http"
	"net/url"
)

var recordKind = resourceKind{
	name:        "record",
	pathPattern: "objects/%s/records",
	ctxN:        1,
	idKey:       "record_id",
	valuesKey:   "values",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true, Delete: true},
}

// defaultObjectSchemas carries wire metadata for the system attributes
// of Attio's standard objects. Custom attributes default to
// single-valued scalars; callers refine them with Client.RegisterSchema
// or Attributes.SchemaFor.
var defaultObjectSchemas = map[string]Schema{
	"people": {
		"name":             {Kind: KindStructured},
		"email_addresses":  {Multi: true},
		"phone_numbers":    {Multi: true},
		"primary_location": {Kind: KindStructured},
		"company":          {Kind: KindReference, TargetObject: "companies"},
	},
	"companies": {
		"domains":          {Kind: KindStructured, Multi: true},
		"primary_location": {Kind: KindStructured},
		"categories":       {Kind: KindStructured, Multi: true},
		"team":             {Kind: KindReference, TargetObject: "people", Multi: true},
	},
	"deals": {
		"value":              {Kind: KindStructured},
		"stage":              {Kind: KindStructured},
		"owner":              {Kind: KindStructured},
		"associated_people":  {Kind: KindReference, TargetObject: "people", Multi: true},
		"associated_company": {Kind: KindReference, TargetObject: "companies"},
	},
}

// Record is a record of an Attio object (a person, company, deal, or a
// custom object). Its attributes are the object's values, normalized.
type Record struct {
	Resource
}

// Object returns the slug of the object this record belongs to.
func (r *Record) Object() string {
	if len(r.pathCtx) == 0 {
		return ""
	}
	return r.pathCtx[0]
}

// RecordService operates on records scoped to an object slug. The slug
// is cross-resource context the record's own identifier cannot supply,
// so every method takes it explicitly.
type RecordService struct {
	client *Client
}

// New returns an unpersisted record bound to the client. Set attributes
// on it and call Save to create it.
func (s *RecordService) New(object string) *Record {
	return &Record{Resource: Resource{
		kind:    &recordKind,
		state:   newAttrState(nil),
		client:  s.client,
		pathCtx: []string{object},
	}}
}

// List queries records of an object. Filters and sorts travel in the
// query request body; the server's pagination cursor is threaded through
// unmodified.
func (s *RecordService) List(ctx context.Context, object string, params ListParams) (*Page[*Record], error) {
	if err := recordKind.allow(opList); err != nil {
		return nil, err
	}
	base, err := recordKind.collectionPath([]string{object})
	if err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodPost, base+"/query", params, func(item map[string]any) (*Record, error) {
		return s.decode(object, item)
	})
}

// Get fetches one record by identifier.
func (s *RecordService) Get(ctx context.Context, object string, id Identifier) (*Record, error) {
	res, err := getResource(ctx, s.client, &recordKind, []string{object}, id, s.client.schemaFor(object))
	if err != nil {
		return nil, err
	}
	return &Record{Resource: res}, nil
}

// Create creates a record from normalized attribute values.
func (s *RecordService) Create(ctx context.Context, object string, values map[string]any) (*Record, error) {
	res, err := createResource(ctx, s.client, &recordKind, []string{object}, values, s.client.schemaFor(object))
	if err != nil {
		return nil, err
	}
	return &Record{Resource: res}, nil
}

// Update issues a partial update with the given values only.
func (s *RecordService) Update(ctx context.Context, object string, id Identifier, values map[string]any) (*Record, error) {
	res, err := updateResource(ctx, s.client, &recordKind, []string{object}, id, values, s.client.schemaFor(object))
	if err != nil {
		return nil, err
	}
	return &Record{Resource: res}, nil
}

// Delete removes a record. Any local instance must be invalidated by the
// caller.
func (s *RecordService) Delete(ctx context.Context, object string, id Identifier) error {
	return deleteResource(ctx, s.client, &recordKind, []string{object}, id)
}

// AssertResult is the per-item outcome of a batch Assert.
type AssertResult struct {
	Record *Record
	Err    error
}

// Assert upserts each item by the matching attribute, reporting per-item
// outcomes rather than failing the whole batch. The request uses PUT, so
// individual items are safe to retry.
func (s *RecordService) Assert(ctx context.Context, object, matchingAttribute string, items []map[string]any) ([]AssertResult, error) {
	if matchingAttribute == "" {
		return nil, &InvalidValueError{Attribute: "matching_attribute", Reason: "required"}
	}
	base, err := recordKind.collectionPath([]string{object})
	if err != nil {
		return nil, err
	}
	query := url.Values{"matching_attribute": {matchingAttribute}}
	overrides := s.client.schemaFor(object)

	results := make([]AssertResult, 0, len(items))
	for _, values := range items {
		body, err := recordKind.requestBody(values, overrides)
		if err != nil {
			results = append(results, AssertResult{Err: err})
			continue
		}
		env, err := s.client.do(ctx, http.MethodPut, base, query, body)
		if err != nil {
			results = append(results, AssertResult{Err: err})
			continue
		}
		res, err := decodeEnvelope(s.client, &recordKind, []string{object}, env, overrides)
		if err != nil {
			results = append(results, AssertResult{Err: err})
			continue
		}
		results = append(results, AssertResult{Record: &Record{Resource: res}})
	}
	return results, nil
}

func (s *RecordService) decode(object string, data map[string]any) (*Record, error) {
	res, err := decodeBound(s.client, &recordKind, []string{object}, data, s.client.schemaFor(object))
	if err != nil {
		return nil, err
	}
	return &Record{Resource: res}, nil
}
