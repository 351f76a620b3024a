package attio

import "context"

// Comments can be created and deleted but never edited.
var commentKind = resourceKind{
	name:        "comment",
	pathPattern: "comments",
	idKey:       "comment_id",
	caps:        Capabilities{Retrieve: true, Create: true, Delete: true},
}

// Comment is a single message in a thread on a record or entry.
type Comment struct {
	Resource
}

// ContentPlaintext returns the comment body as plain text.
func (c *Comment) ContentPlaintext() string { return c.GetString("content_plaintext") }

// CommentCreateParams are the fields of a comment create request. A
// comment needs Content and exactly one anchor: an existing ThreadID to
// reply to, or a Record to start a new thread on.
type CommentCreateParams struct {
	Content  string
	ThreadID string
	Record   *RecordRef
}

// CommentService operates on comments.
type CommentService struct {
	client *Client
}

// Get fetches one comment.
func (s *CommentService) Get(ctx context.Context, id Identifier) (*Comment, error) {
	res, err := getResource(ctx, s.client, &commentKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &Comment{Resource: res}, nil
}

// Create posts a comment after validating its anchor locally.
func (s *CommentService) Create(ctx context.Context, params CommentCreateParams) (*Comment, error) {
	if params.Content == "" {
		return nil, &InvalidValueError{Attribute: "content", Reason: "required"}
	}
	if (params.ThreadID == "") == (params.Record == nil) {
		return nil, &InvalidValueError{Attribute: "thread_id", Reason: "exactly one of thread_id or record is required"}
	}

	data := map[string]any{
		"format":  "plaintext",
		"content": params.Content,
	}
	if params.ThreadID != "" {
		data["thread_id"] = params.ThreadID
	} else {
		data["record"] = map[string]any{
			"target_object":    params.Record.Object,
			"target_record_id": params.Record.RecordID,
		}
	}
	res, err := createResourceRaw(ctx, s.client, &commentKind, nil, map[string]any{"data": data}, nil)
	if err != nil {
		return nil, err
	}
	return &Comment{Resource: res}, nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, id Identifier) error {
	return deleteResource(ctx, s.client, &commentKind, nil, id)
}
