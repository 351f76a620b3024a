package attio

import (
	"context"
	"net/http"
	"time"
)

var taskKind = resourceKind{
	name:        "task",
	pathPattern: "tasks",
	idKey:       "task_id",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true, Delete: true},
}

// Task is a workspace task, optionally linked to records and assigned
// to workspace members.
type Task struct {
	Resource
}

// Content returns the task's plaintext content.
func (t *Task) Content() string { return t.GetString("content_plaintext") }

// IsCompleted reports whether the task is done.
func (t *Task) IsCompleted() bool { return t.GetBool("is_completed") }

// RecordRef addresses a record by object slug and record ID, for task
// and note linkage.
type RecordRef struct {
	Object   string `json:"target_object"`
	RecordID string `json:"target_record_id"`
}

// TaskCreateParams are the fields of a task create request. Content and
// Deadline are required; missing ones fail locally before any network
// call.
type TaskCreateParams struct {
	Content       string
	Deadline      time.Time
	IsCompleted   bool
	Assignees     []string // workspace member IDs
	LinkedRecords []RecordRef
}

// TaskService operates on workspace tasks.
type TaskService struct {
	client *Client
}

// List returns tasks, paginated.
func (s *TaskService) List(ctx context.Context, params ListParams) (*Page[*Task], error) {
	if err := taskKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "tasks", params, func(item map[string]any) (*Task, error) {
		res, err := decodeBound(s.client, &taskKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &Task{Resource: res}, nil
	})
}

// Get fetches one task.
func (s *TaskService) Get(ctx context.Context, id Identifier) (*Task, error) {
	res, err := getResource(ctx, s.client, &taskKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &Task{Resource: res}, nil
}

// Create creates a task after validating required fields locally.
func (s *TaskService) Create(ctx context.Context, params TaskCreateParams) (*Task, error) {
	if params.Content == "" {
		return nil, &InvalidValueError{Attribute: "content", Reason: "required"}
	}
	if params.Deadline.IsZero() {
		return nil, &InvalidValueError{Attribute: "deadline_at", Reason: "required"}
	}

	assignees := make([]any, 0, len(params.Assignees))
	for _, memberID := range params.Assignees {
		assignees = append(assignees, map[string]any{
			"referenced_actor_type": "workspace-member",
			"referenced_actor_id":   memberID,
		})
	}
	linked := make([]any, 0, len(params.LinkedRecords))
	for _, ref := range params.LinkedRecords {
		linked = append(linked, map[string]any{
			"target_object":    ref.Object,
			"target_record_id": ref.RecordID,
		})
	}

	body := map[string]any{"data": map[string]any{
		"content":        params.Content,
		"format":         "plaintext",
		"deadline_at":    params.Deadline.UTC().Format(time.RFC3339),
		"is_completed":   params.IsCompleted,
		"assignees":      assignees,
		"linked_records": linked,
	}}
	res, err := createResourceRaw(ctx, s.client, &taskKind, nil, body, nil)
	if err != nil {
		return nil, err
	}
	return &Task{Resource: res}, nil
}

// Update issues a partial update (deadline, completion, assignees).
func (s *TaskService) Update(ctx context.Context, id Identifier, values map[string]any) (*Task, error) {
	res, err := updateResource(ctx, s.client, &taskKind, nil, id, values, nil)
	if err != nil {
		return nil, err
	}
	return &Task{Resource: res}, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id Identifier) error {
	return deleteResource(ctx, s.client, &taskKind, nil, id)
}
