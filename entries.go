package attio

import (
	"context"
	"net/http"
)

var entryKind = resourceKind{
	name:        "entry",
	pathPattern: "lists/%s/entries",
	ctxN:        1,
	idKey:       "entry_id",
	valuesKey:   "entry_values",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true, Delete: true},
}

// Entry is a record's membership in a list, with its own entry values.
// An entry's identifier alone cannot locate it; the parent list is
// cross-resource context every operation requires.
type Entry struct {
	Resource
	parentObject   string
	parentRecordID string
}

// ListSlug returns the list this entry belongs to.
func (e *Entry) ListSlug() string {
	if len(e.pathCtx) == 0 {
		return ""
	}
	return e.pathCtx[0]
}

// ParentObject returns the object slug of the record behind this entry.
func (e *Entry) ParentObject() string { return e.parentObject }

// ParentRecordID returns the ID of the record behind this entry.
func (e *Entry) ParentRecordID() string { return e.parentRecordID }

// EntryService operates on the entries of a list.
type EntryService struct {
	client *Client
}

// List queries the entries of a list.
func (s *EntryService) List(ctx context.Context, list string, params ListParams) (*Page[*Entry], error) {
	if err := entryKind.allow(opList); err != nil {
		return nil, err
	}
	base, err := entryKind.collectionPath([]string{list})
	if err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodPost, base+"/query", params, func(item map[string]any) (*Entry, error) {
		return s.decode(list, item)
	})
}

// Get fetches one entry.
func (s *EntryService) Get(ctx context.Context, list string, id Identifier) (*Entry, error) {
	if err := entryKind.allow(opRetrieve); err != nil {
		return nil, err
	}
	path, err := entryKind.instancePath([]string{list}, id)
	if err != nil {
		return nil, err
	}
	env, err := s.client.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	data, err := env.objectData()
	if err != nil {
		return nil, err
	}
	return s.decode(list, data)
}

// Create adds a record to the list. The parent record is addressed by
// object slug and record ID; entry values are egress-normalized.
func (s *EntryService) Create(ctx context.Context, list, parentObject, parentRecordID string, values map[string]any) (*Entry, error) {
	if parentObject == "" || parentRecordID == "" {
		return nil, &IdentifierError{Key: "parent_record_id", Reason: "entry creation requires a parent object and record"}
	}
	wire := make(map[string]any, len(values))
	for name, v := range values {
		w, err := WriteValue(name, v, entryKind.schema.meta(name))
		if err != nil {
			return nil, err
		}
		wire[name] = w
	}
	body := map[string]any{"data": map[string]any{
		"parent_object":    parentObject,
		"parent_record_id": parentRecordID,
		"entry_values":     wire,
	}}
	res, err := createResourceRaw(ctx, s.client, &entryKind, []string{list}, body, nil)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Resource: res, parentObject: parentObject, parentRecordID: parentRecordID}
	return entry, nil
}

// Update issues a partial update of entry values.
func (s *EntryService) Update(ctx context.Context, list string, id Identifier, values map[string]any) (*Entry, error) {
	res, err := updateResource(ctx, s.client, &entryKind, []string{list}, id, values, nil)
	if err != nil {
		return nil, err
	}
	return &Entry{Resource: res}, nil
}

// Delete removes an entry from its list; the record itself is untouched.
func (s *EntryService) Delete(ctx context.Context, list string, id Identifier) error {
	return deleteResource(ctx, s.client, &entryKind, []string{list}, id)
}

func (s *EntryService) decode(list string, data map[string]any) (*Entry, error) {
	res, err := decodeBound(s.client, &entryKind, []string{list}, data, nil)
	if err != nil {
		return nil, err
	}
	entry := &Entry{Resource: res}
	entry.parentObject, _ = data["parent_object"].(string)
	entry.parentRecordID, _ = data["parent_record_id"].(string)
	return entry, nil
}
