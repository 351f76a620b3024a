package attiotest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// --- lists ---

func (s *Server) renderList(l listData) map[string]any {
	return map[string]any{
		"id":            map[string]any{"workspace_id": s.WorkspaceID, "list_id": l.ListID},
		"api_slug":      l.APISlug,
		"name":          l.Name,
		"parent_object": []any{l.ParentObject},
		"created_at":    ts(l.CreatedAt),
	}
}

func (s *Server) lookupList(key string) (listData, bool) {
	if l, ok := s.lists.Get(key); ok {
		return l, true
	}
	_, l, ok := s.lists.Find(func(_ string, l listData) bool { return l.ListID == key })
	return l, ok
}

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.lists.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, l := range items {
		rendered = append(rendered, s.renderList(l))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	data := dataOf(decodeBody(r))
	name, _ := data["name"].(string)
	slug, _ := data["api_slug"].(string)
	parent, _ := data["parent_object"].(string)
	if name == "" || slug == "" || parent == "" {
		validationError(w, "name, api_slug and parent_object are required", []map[string]any{
			{"code": "required", "path": []string{"data"}, "message": "name, api_slug and parent_object are required"},
		})
		return
	}
	if _, ok := s.lookupObject(parent); !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Parent object not found.")
		return
	}
	l := listData{
		ListID:       NewID(),
		APISlug:      slug,
		Name:         name,
		ParentObject: parent,
		CreatedAt:    now(),
	}
	s.lists.Set(slug, l)
	writeData(w, http.StatusOK, s.renderList(l))
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookupList(chi.URLParam(r, "list"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "List not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderList(l))
}

func (s *Server) updateList(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookupList(chi.URLParam(r, "list"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "List not found.")
		return
	}
	data := dataOf(decodeBody(r))
	if v, ok := data["name"].(string); ok {
		l.Name = v
	}
	s.lists.Set(l.APISlug, l)
	writeData(w, http.StatusOK, s.renderList(l))
}

// --- entries ---

func (s *Server) renderEntry(e entryData) map[string]any {
	return map[string]any{
		"id": map[string]any{
			"workspace_id": s.WorkspaceID,
			"list_id":      e.ListID,
			"entry_id":     e.EntryID,
		},
		"parent_object":    e.ParentObject,
		"parent_record_id": e.ParentRecordID,
		"entry_values":     wrapValues(e.Values),
		"created_at":       ts(e.CreatedAt),
	}
}

func (s *Server) queryEntries(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookupList(chi.URLParam(r, "list"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "List not found.")
		return
	}
	body := decodeBody(r)
	cursor, limit := pageParams(r, body)
	all := s.entries.Filter(func(_ string, e entryData) bool { return e.ListID == l.ListID })
	page, hasMore, next := paginateSlice(all, cursor, limit, func(e entryData) string { return e.EntryID })
	rendered := make([]map[string]any, 0, len(page))
	for _, e := range page {
		rendered = append(rendered, s.renderEntry(e))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookupList(chi.URLParam(r, "list"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "List not found.")
		return
	}
	data := dataOf(decodeBody(r))
	parentObject, _ := data["parent_object"].(string)
	parentRecordID, _ := data["parent_record_id"].(string)
	if parentObject == "" || parentRecordID == "" {
		validationError(w, "parent_object and parent_record_id are required", []map[string]any{
			{"code": "required", "path": []string{"data", "parent_record_id"}, "message": "parent_object and parent_record_id are required"},
		})
		return
	}
	values, _ := data["entry_values"].(map[string]any)
	e := entryData{
		EntryID:        NewID(),
		ListID:         l.ListID,
		ParentObject:   parentObject,
		ParentRecordID: parentRecordID,
		Values:         unwrapValues(values),
		CreatedAt:      now(),
	}
	s.entries.Set(e.EntryID, e)
	writeData(w, http.StatusOK, s.renderEntry(e))
}

func (s *Server) entryFor(r *http.Request) (entryData, bool) {
	l, ok := s.lookupList(chi.URLParam(r, "list"))
	if !ok {
		return entryData{}, false
	}
	e, ok := s.entries.Get(chi.URLParam(r, "entry_id"))
	if !ok || e.ListID != l.ListID {
		return entryData{}, false
	}
	return e, true
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(r)
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Entry not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderEntry(e))
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(r)
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Entry not found.")
		return
	}
	data := dataOf(decodeBody(r))
	values, _ := data["entry_values"].(map[string]any)
	for k, v := range unwrapValues(values) {
		e.Values[k] = v
	}
	s.entries.Set(e.EntryID, e)
	writeData(w, http.StatusOK, s.renderEntry(e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entryFor(r)
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Entry not found.")
		return
	}
	s.entries.Delete(e.EntryID)
	writeData(w, http.StatusOK, map[string]any{})
}

// --- tasks ---

func (s *Server) renderTask(t taskData) map[string]any {
	return map[string]any{
		"id":                map[string]any{"workspace_id": s.WorkspaceID, "task_id": t.TaskID},
		"content_plaintext": t.Content,
		"deadline_at":       t.DeadlineAt,
		"is_completed":      t.IsCompleted,
		"assignees":         t.Assignees,
		"linked_records":    t.Linked,
		"created_at":        ts(t.CreatedAt),
	}
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.tasks.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, t := range items {
		rendered = append(rendered, s.renderTask(t))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	data := dataOf(decodeBody(r))
	content, _ := data["content"].(string)
	deadline, _ := data["deadline_at"].(string)
	if content == "" || deadline == "" {
		validationError(w, "content and deadline_at are required", []map[string]any{
			{"code": "required", "path": []string{"data", "deadline_at"}, "message": "content and deadline_at are required"},
		})
		return
	}
	completed, _ := data["is_completed"].(bool)
	assignees, _ := data["assignees"].([]any)
	linked, _ := data["linked_records"].([]any)
	t := taskData{
		TaskID:      NewID(),
		Content:     content,
		Format:      "plaintext",
		DeadlineAt:  deadline,
		IsCompleted: completed,
		Assignees:   assignees,
		Linked:      linked,
		CreatedAt:   now(),
	}
	s.tasks.Set(t.TaskID, t)
	writeData(w, http.StatusOK, s.renderTask(t))
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tasks.Get(chi.URLParam(r, "task_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Task not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderTask(t))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	t, ok := s.tasks.Get(chi.URLParam(r, "task_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Task not found.")
		return
	}
	data := dataOf(decodeBody(r))
	if v, ok := data["deadline_at"].(string); ok {
		t.DeadlineAt = v
	}
	if v, ok := data["is_completed"].(bool); ok {
		t.IsCompleted = v
	}
	if v, ok := data["assignees"].([]any); ok {
		t.Assignees = v
	}
	s.tasks.Set(t.TaskID, t)
	writeData(w, http.StatusOK, s.renderTask(t))
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if !s.tasks.Delete(chi.URLParam(r, "task_id")) {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Task not found.")
		return
	}
	writeData(w, http.StatusOK, map[string]any{})
}

// --- comments and threads ---

func (s *Server) renderComment(c commentData) map[string]any {
	return map[string]any{
		"id":                map[string]any{"workspace_id": s.WorkspaceID, "comment_id": c.CommentID},
		"thread_id":         c.ThreadID,
		"content_plaintext": c.Content,
		"created_at":        ts(c.CreatedAt),
	}
}

func (s *Server) renderThread(t threadData) map[string]any {
	comments := s.comments.Filter(func(_ string, c commentData) bool { return c.ThreadID == t.ThreadID })
	rendered := make([]any, 0, len(comments))
	for _, c := range comments {
		rendered = append(rendered, s.renderComment(c))
	}
	return map[string]any{
		"id":         map[string]any{"workspace_id": s.WorkspaceID, "thread_id": t.ThreadID},
		"comments":   rendered,
		"created_at": ts(t.CreatedAt),
	}
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	data := dataOf(decodeBody(r))
	content, _ := data["content"].(string)
	if content == "" {
		validationError(w, "content is required", []map[string]any{
			{"code": "required", "path": []string{"data", "content"}, "message": "content is required"},
		})
		return
	}
	threadID, _ := data["thread_id"].(string)
	if threadID == "" {
		// A comment on a record starts a new thread.
		th := threadData{ThreadID: NewID(), CreatedAt: now()}
		s.threads.Set(th.ThreadID, th)
		threadID = th.ThreadID
	} else if _, ok := s.threads.Get(threadID); !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Thread not found.")
		return
	}
	c := commentData{
		CommentID: NewID(),
		ThreadID:  threadID,
		Content:   content,
		CreatedAt: now(),
	}
	s.comments.Set(c.CommentID, c)
	writeData(w, http.StatusOK, s.renderComment(c))
}

func (s *Server) getComment(w http.ResponseWriter, r *http.Request) {
	c, ok := s.comments.Get(chi.URLParam(r, "comment_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Comment not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderComment(c))
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	if !s.comments.Delete(chi.URLParam(r, "comment_id")) {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Comment not found.")
		return
	}
	writeData(w, http.StatusOK, map[string]any{})
}

func (s *Server) listThreads(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.threads.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, t := range items {
		rendered = append(rendered, s.renderThread(t))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	t, ok := s.threads.Get(chi.URLParam(r, "thread_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Thread not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderThread(t))
}

// --- notes ---

func (s *Server) renderNote(n noteData) map[string]any {
	return map[string]any{
		"id":                map[string]any{"workspace_id": s.WorkspaceID, "note_id": n.NoteID},
		"parent_object":     n.ParentObject,
		"parent_record_id":  n.ParentRecordID,
		"title":             n.Title,
		"content_plaintext": n.Content,
		"created_at":        ts(n.CreatedAt),
	}
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.notes.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, n := range items {
		rendered = append(rendered, s.renderNote(n))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	data := dataOf(decodeBody(r))
	parentObject, _ := data["parent_object"].(string)
	parentRecordID, _ := data["parent_record_id"].(string)
	title, _ := data["title"].(string)
	if parentObject == "" || parentRecordID == "" || title == "" {
		validationError(w, "parent_object, parent_record_id and title are required", []map[string]any{
			{"code": "required", "path": []string{"data", "title"}, "message": "parent_object, parent_record_id and title are required"},
		})
		return
	}
	content, _ := data["content"].(string)
	n := noteData{
		NoteID:         NewID(),
		ParentObject:   parentObject,
		ParentRecordID: parentRecordID,
		Title:          title,
		Content:        content,
		CreatedAt:      now(),
	}
	s.notes.Set(n.NoteID, n)
	writeData(w, http.StatusOK, s.renderNote(n))
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	n, ok := s.notes.Get(chi.URLParam(r, "note_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Note not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderNote(n))
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if !s.notes.Delete(chi.URLParam(r, "note_id")) {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Note not found.")
		return
	}
	writeData(w, http.StatusOK, map[string]any{})
}

// --- webhooks ---

func (s *Server) renderWebhook(wh webhookData, includeSecret bool) map[string]any {
	out := map[string]any{
		"id":            map[string]any{"workspace_id": s.WorkspaceID, "webhook_id": wh.WebhookID},
		"target_url":    wh.TargetURL,
		"subscriptions": wh.Subscriptions,
		"status":        wh.Status,
		"created_at":    ts(wh.CreatedAt),
	}
	if includeSecret {
		out["secret"] = wh.Secret
	}
	return out
}

func (s *Server) listWebhooks(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.webhooks.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, wh := range items {
		rendered = append(rendered, s.renderWebhook(wh, false))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createWebhook(w http.ResponseWriter, r *http.Request) {
	data := dataOf(decodeBody(r))
	target, _ := data["target_url"].(string)
	subs, _ := data["subscriptions"].([]any)
	if !strings.HasPrefix(target, "https://") || len(subs) == 0 {
		validationError(w, "an https target_url and at least one subscription are required", []map[string]any{
			{"code": "invalid", "path": []string{"data", "target_url"}, "message": "an https target_url and at least one subscription are required"},
		})
		return
	}
	wh := webhookData{
		WebhookID:     NewID(),
		TargetURL:     target,
		Subscriptions: subs,
		Secret:        "whsec_" + NewID(),
		Status:        "active",
		CreatedAt:     now(),
	}
	s.webhooks.Set(wh.WebhookID, wh)
	// The secret is disclosed exactly once, in the create response.
	writeData(w, http.StatusOK, s.renderWebhook(wh, true))
}

func (s *Server) getWebhook(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.webhooks.Get(chi.URLParam(r, "webhook_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Webhook not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderWebhook(wh, false))
}

func (s *Server) updateWebhook(w http.ResponseWriter, r *http.Request) {
	wh, ok := s.webhooks.Get(chi.URLParam(r, "webhook_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Webhook not found.")
		return
	}
	data := dataOf(decodeBody(r))
	if v, ok := data["target_url"].(string); ok {
		wh.TargetURL = v
	}
	if v, ok := data["subscriptions"].([]any); ok {
		wh.Subscriptions = v
	}
	s.webhooks.Set(wh.WebhookID, wh)
	writeData(w, http.StatusOK, s.renderWebhook(wh, false))
}

func (s *Server) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.webhooks.Delete(chi.URLParam(r, "webhook_id")) {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Webhook not found.")
		return
	}
	writeData(w, http.StatusOK, map[string]any{})
}

// --- workspace members ---

func (s *Server) renderMember(m memberData) map[string]any {
	return map[string]any{
		"id":            map[string]any{"workspace_id": s.WorkspaceID, "workspace_member_id": m.MemberID},
		"first_name":    m.FirstName,
		"last_name":     m.LastName,
		"email_address": m.EmailAddress,
		"access_level":  m.AccessLevel,
		"created_at":    ts(m.CreatedAt),
	}
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.members.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, m := range items {
		rendered = append(rendered, s.renderMember(m))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	m, ok := s.members.Get(chi.URLParam(r, "member_id"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Workspace member not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderMember(m))
}

// titleCase turns an api_slug into a display title.
func titleCase(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// standardAttributes returns the attribute definitions the mock exposes
// for the standard objects, in the wire shape of GET
// /objects/{object}/attributes.
func standardAttributes(object, workspaceID string) []map[string]any {
	def := func(slug, attrType string, multi bool, config map[string]any) map[string]any {
		if config == nil {
			config = map[string]any{}
		}
		return map[string]any{
			"id": map[string]any{
				"workspace_id": workspaceID,
				"object_id":    object,
				"attribute_id": NewID(),
			},
			"api_slug":       slug,
			"title":          titleCase(slug),
			"type":           attrType,
			"is_multiselect": multi,
			"config":         config,
			"created_at":     ts(now()),
		}
	}
	switch object {
	case "people":
		return []map[string]any{
			def("name", "personal-name", false, nil),
			def("email_addresses", "email-address", true, nil),
			def("phone_numbers", "phone-number", true, nil),
			def("company", "record-reference", false, map[string]any{
				"record_reference": map[string]any{"allowed_objects": []any{"companies"}},
			}),
			def("description", "text", false, nil),
		}
	case "companies":
		return []map[string]any{
			def("name", "text", false, nil),
			def("domains", "domain", true, nil),
			def("description", "text", false, nil),
			def("team", "record-reference", true, map[string]any{
				"record_reference": map[string]any{"allowed_objects": []any{"people"}},
			}),
		}
	case "deals":
		return []map[string]any{
			def("name", "text", false, nil),
			def("stage", "status", false, nil),
			def("value", "currency", false, nil),
			def("owner", "actor-reference", false, nil),
			def("associated_company", "record-reference", false, map[string]any{
				"record_reference": map[string]any{"allowed_objects": []any{"companies"}},
			}),
		}
	default:
		return []map[string]any{
			def("name", "text", false, nil),
		}
	}
}
