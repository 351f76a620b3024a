package attiotest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func now() time.Time {
	return time.Now().UTC()
}

func ts(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func (s *Server) routes(r chi.Router) {
	r.Get("/self", s.getSelf)

	r.Route("/objects", func(r chi.Router) {
		r.Get("/", s.listObjects)
		r.Post("/", s.createObject)
		r.Get("/{object}", s.getObject)
		r.Patch("/{object}", s.updateObject)

		r.Route("/{object}/attributes", func(r chi.Router) {
			r.Get("/", s.listAttributes)
		})

		r.Route("/{object}/records", func(r chi.Router) {
			r.Post("/query", s.queryRecords)
			r.Post("/", s.createRecord)
			r.Put("/", s.assertRecord)
			r.Get("/{record_id}", s.getRecord)
			r.Patch("/{record_id}", s.updateRecord)
			r.Delete("/{record_id}", s.deleteRecord)
		})
	})

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", s.listLists)
		r.Post("/", s.createList)
		r.Get("/{list}", s.getList)
		r.Patch("/{list}", s.updateList)

		r.Route("/{list}/entries", func(r chi.Router) {
			r.Post("/query", s.queryEntries)
			r.Post("/", s.createEntry)
			r.Get("/{entry_id}", s.getEntry)
			r.Patch("/{entry_id}", s.updateEntry)
			r.Delete("/{entry_id}", s.deleteEntry)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Get("/{task_id}", s.getTask)
		r.Patch("/{task_id}", s.updateTask)
		r.Delete("/{task_id}", s.deleteTask)
	})

	r.Route("/comments", func(r chi.Router) {
		r.Post("/", s.createComment)
		r.Get("/{comment_id}", s.getComment)
		r.Delete("/{comment_id}", s.deleteComment)
	})

	r.Route("/threads", func(r chi.Router) {
		r.Get("/", s.listThreads)
		r.Get("/{thread_id}", s.getThread)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", s.listNotes)
		r.Post("/", s.createNote)
		r.Get("/{note_id}", s.getNote)
		r.Delete("/{note_id}", s.deleteNote)
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Get("/", s.listWebhooks)
		r.Post("/", s.createWebhook)
		r.Get("/{webhook_id}", s.getWebhook)
		r.Patch("/{webhook_id}", s.updateWebhook)
		r.Delete("/{webhook_id}", s.deleteWebhook)
	})

	r.Get("/workspace_members", s.listMembers)
	r.Get("/workspace_members/{member_id}", s.getMember)
}

// --- request helpers ---

func decodeBody(r *http.Request) map[string]any {
	var m map[string]any
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&m)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m
}

func dataOf(body map[string]any) map[string]any {
	if d, ok := body["data"].(map[string]any); ok {
		return d
	}
	return map[string]any{}
}

func pageParams(r *http.Request, body map[string]any) (cursor string, limit int) {
	cursor = r.URL.Query().Get("cursor")
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = n
	}
	if body != nil {
		if c, ok := body["cursor"].(string); ok && c != "" {
			cursor = c
		}
		if n, ok := body["limit"].(float64); ok {
			limit = int(n)
		}
	}
	return cursor, limit
}

func paginateSlice[T any](items []T, cursor string, limit int, idOf func(T) string) (page []T, hasMore bool, nextCursor string) {
	start := 0
	if cursor != "" {
		for i, item := range items {
			if idOf(item) == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	} else if end < len(items) {
		hasMore = true
	}
	page = items[start:end]
	for _, item := range page {
		nextCursor = idOf(item)
	}
	return page, hasMore, nextCursor
}

// --- self ---

func (s *Server) getSelf(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"id":             map[string]any{"workspace_id": s.WorkspaceID},
		"workspace_name": "Test Workspace",
		"workspace_slug": "test-workspace",
		"active":         true,
		"scope":          "record_permission:read-write object_configuration:read-write",
	})
}

// --- objects ---

func (s *Server) renderObject(o objectData) map[string]any {
	return map[string]any{
		"id":            map[string]any{"workspace_id": s.WorkspaceID, "object_id": o.ObjectID},
		"api_slug":      o.APISlug,
		"singular_noun": o.SingularNoun,
		"plural_noun":   o.PluralNoun,
		"created_at":    ts(o.CreatedAt),
	}
}

func (s *Server) lookupObject(key string) (objectData, bool) {
	if o, ok := s.objects.Get(key); ok {
		return o, true
	}
	_, o, ok := s.objects.Find(func(_ string, o objectData) bool { return o.ObjectID == key })
	return o, ok
}

func (s *Server) listObjects(w http.ResponseWriter, r *http.Request) {
	cursor, limit := pageParams(r, nil)
	items, hasMore, next := s.objects.Paginate(cursor, limit)
	rendered := make([]map[string]any, 0, len(items))
	for _, o := range items {
		rendered = append(rendered, s.renderObject(o))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createObject(w http.ResponseWriter, r *http.Request) {
	data := dataOf(decodeBody(r))
	slug, _ := data["api_slug"].(string)
	if slug == "" {
		validationError(w, "api_slug is required", []map[string]any{
			{"code": "required", "path": []string{"data", "api_slug"}, "message": "api_slug is required"},
		})
		return
	}
	singular, _ := data["singular_noun"].(string)
	plural, _ := data["plural_noun"].(string)
	o := objectData{
		ObjectID:     NewID(),
		APISlug:      slug,
		SingularNoun: singular,
		PluralNoun:   plural,
		CreatedAt:    now(),
	}
	s.objects.Set(slug, o)
	writeData(w, http.StatusOK, s.renderObject(o))
}

func (s *Server) getObject(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookupObject(chi.URLParam(r, "object"))
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Object not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderObject(o))
}

func (s *Server) updateObject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "object")
	o, ok := s.lookupObject(slug)
	if !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Object not found.")
		return
	}
	data := dataOf(decodeBody(r))
	if v, ok := data["singular_noun"].(string); ok {
		o.SingularNoun = v
	}
	if v, ok := data["plural_noun"].(string); ok {
		o.PluralNoun = v
	}
	s.objects.Set(o.APISlug, o)
	writeData(w, http.StatusOK, s.renderObject(o))
}

// --- attributes ---

func (s *Server) listAttributes(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	if _, ok := s.lookupObject(object); !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Object not found.")
		return
	}
	// A small static attribute set per standard object; enough for
	// SchemaFor to exercise its mapping.
	attrs := standardAttributes(object, s.WorkspaceID)
	writeList(w, attrs, false, "")
}

// --- records ---

func (s *Server) renderRecord(rec recordData) map[string]any {
	objectID := ""
	if o, ok := s.lookupObject(rec.Object); ok {
		objectID = o.ObjectID
	}
	return map[string]any{
		"id": map[string]any{
			"workspace_id": s.WorkspaceID,
			"object_id":    objectID,
			"record_id":    rec.RecordID,
		},
		"created_at": ts(rec.CreatedAt),
		"values":     wrapValues(rec.Values),
	}
}

func (s *Server) queryRecords(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	if _, ok := s.lookupObject(object); !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Object not found.")
		return
	}
	body := decodeBody(r)
	cursor, limit := pageParams(r, body)
	all := s.records.Filter(func(_ string, rec recordData) bool { return rec.Object == object })
	page, hasMore, next := paginateSlice(all, cursor, limit, func(rec recordData) string { return rec.RecordID })
	rendered := make([]map[string]any, 0, len(page))
	for _, rec := range page {
		rendered = append(rendered, s.renderRecord(rec))
	}
	writeList(w, rendered, hasMore, next)
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	if _, ok := s.lookupObject(object); !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Object not found.")
		return
	}
	data := dataOf(decodeBody(r))
	values, _ := data["values"].(map[string]any)
	if values == nil {
		validationError(w, "values is required", []map[string]any{
			{"code": "required", "path": []string{"data", "values"}, "message": "values is required"},
		})
		return
	}
	rec := recordData{
		RecordID:  NewID(),
		Object:    object,
		Values:    unwrapValues(values),
		CreatedAt: now(),
	}
	s.records.Set(rec.RecordID, rec)
	writeData(w, http.StatusOK, s.renderRecord(rec))
}

func (s *Server) assertRecord(w http.ResponseWriter, r *http.Request) {
	object := chi.URLParam(r, "object")
	if _, ok := s.lookupObject(object); !ok {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Object not found.")
		return
	}
	matching := r.URL.Query().Get("matching_attribute")
	if matching == "" {
		validationError(w, "matching_attribute is required", []map[string]any{
			{"code": "required", "path": []string{"matching_attribute"}, "message": "matching_attribute is required"},
		})
		return
	}
	data := dataOf(decodeBody(r))
	values, _ := data["values"].(map[string]any)
	plain := unwrapValues(values)

	id, existing, found := s.records.Find(func(_ string, rec recordData) bool {
		return rec.Object == object && deepEqualJSON(rec.Values[matching], plain[matching])
	})
	if found {
		for k, v := range plain {
			existing.Values[k] = v
		}
		s.records.Set(id, existing)
		writeData(w, http.StatusOK, s.renderRecord(existing))
		return
	}
	rec := recordData{
		RecordID:  NewID(),
		Object:    object,
		Values:    plain,
		CreatedAt: now(),
	}
	s.records.Set(rec.RecordID, rec)
	writeData(w, http.StatusOK, s.renderRecord(rec))
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.records.Get(chi.URLParam(r, "record_id"))
	if !ok || rec.Object != chi.URLParam(r, "object") {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Record not found.")
		return
	}
	writeData(w, http.StatusOK, s.renderRecord(rec))
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.records.Get(chi.URLParam(r, "record_id"))
	if !ok || rec.Object != chi.URLParam(r, "object") {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Record not found.")
		return
	}
	data := dataOf(decodeBody(r))
	values, _ := data["values"].(map[string]any)
	for k, v := range unwrapValues(values) {
		rec.Values[k] = v
	}
	s.records.Set(rec.RecordID, rec)
	writeData(w, http.StatusOK, s.renderRecord(rec))
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "record_id")
	rec, ok := s.records.Get(id)
	if !ok || rec.Object != chi.URLParam(r, "object") {
		attioError(w, http.StatusNotFound, "invalid_request_error", "not_found", "Record not found.")
		return
	}
	s.records.Delete(id)
	writeData(w, http.StatusOK, map[string]any{})
}

// deepEqualJSON compares two decoded JSON values structurally.
func deepEqualJSON(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
