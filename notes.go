package attio

import (
	"context"
	"net/http"
)

// Notes are immutable once written; they can only be created, read and
// deleted.
var noteKind = resourceKind{
	name:        "note",
	pathPattern: "notes",
	idKey:       "note_id",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Delete: true},
}

// Note is a free-form note attached to a record.
type Note struct {
	Resource
}

// Title returns the note's title.
func (n *Note) Title() string { return n.GetString("title") }

// NoteCreateParams are the fields of a note create request. The parent
// record and a title are required.
type NoteCreateParams struct {
	ParentObject   string
	ParentRecordID string
	Title          string
	Content        string
}

// NoteService operates on notes.
type NoteService struct {
	client *Client
}

// List returns notes, paginated.
func (s *NoteService) List(ctx context.Context, params ListParams) (*Page[*Note], error) {
	if err := noteKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "notes", params, func(item map[string]any) (*Note, error) {
		res, err := decodeBound(s.client, &noteKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &Note{Resource: res}, nil
	})
}

// Get fetches one note.
func (s *NoteService) Get(ctx context.Context, id Identifier) (*Note, error) {
	res, err := getResource(ctx, s.client, &noteKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &Note{Resource: res}, nil
}

// Create writes a note after validating its parent locally.
func (s *NoteService) Create(ctx context.Context, params NoteCreateParams) (*Note, error) {
	if params.ParentObject == "" || params.ParentRecordID == "" {
		return nil, &IdentifierError{Key: "parent_record_id", Reason: "note creation requires a parent object and record"}
	}
	if params.Title == "" {
		return nil, &InvalidValueError{Attribute: "title", Reason: "required"}
	}
	body := map[string]any{"data": map[string]any{
		"parent_object":    params.ParentObject,
		"parent_record_id": params.ParentRecordID,
		"title":            params.Title,
		"format":           "plaintext",
		"content":          params.Content,
	}}
	res, err := createResourceRaw(ctx, s.client, &noteKind, nil, body, nil)
	if err != nil {
		return nil, err
	}
	return &Note{Resource: res}, nil
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, id Identifier) error {
	return deleteResource(ctx, s.client, &noteKind, nil, id)
}
