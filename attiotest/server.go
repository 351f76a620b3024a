package attiotest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Server is an in-process mock Attio API. Point a client at
// Server.BaseURL with the Server.APIKey bearer token.
type Server struct {
	// BaseURL is the /v2 root to use as the client's base URL.
	BaseURL string
	// APIKey is the only bearer token the server accepts.
	APIKey string
	// WorkspaceID scopes every composite identifier the server mints.
	WorkspaceID string

	httpSrv *httptest.Server
	logger  *slog.Logger

	objects  *Collection[objectData]
	records  *Collection[recordData]
	lists    *Collection[listData]
	entries  *Collection[entryData]
	tasks    *Collection[taskData]
	comments *Collection[commentData]
	threads  *Collection[threadData]
	notes    *Collection[noteData]
	webhooks *Collection[webhookData]
	members  *Collection[memberData]

	mu       sync.Mutex
	failures []plannedFailure
	requests []CapturedRequest
}

// plannedFailure makes the next request(s) fail with a fixed status.
type plannedFailure struct {
	status int
	code   string
}

// CapturedRequest records one request the server saw, for asserting on
// payloads the SDK produced.
type CapturedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// New starts a mock server and registers its shutdown with the test.
func New(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		APIKey:      "at_test_" + NewID(),
		WorkspaceID: NewID(),
		logger:      slog.Default(),
		objects:     NewCollection[objectData](),
		records:     NewCollection[recordData](),
		lists:       NewCollection[listData](),
		entries:     NewCollection[entryData](),
		tasks:       NewCollection[taskData](),
		comments:    NewCollection[commentData](),
		threads:     NewCollection[threadData](),
		notes:       NewCollection[noteData](),
		webhooks:    NewCollection[webhookData](),
		members:     NewCollection[memberData](),
	}
	s.seedStandardObjects()

	r := chi.NewRouter()
	r.Route("/v2", func(r chi.Router) {
		r.Use(s.captureRequest)
		r.Use(s.requireAuth)
		r.Use(s.injectFaults)
		s.routes(r)
	})

	s.httpSrv = httptest.NewServer(r)
	s.BaseURL = s.httpSrv.URL + "/v2"
	t.Cleanup(s.httpSrv.Close)
	return s
}

// seedStandardObjects installs the objects every Attio workspace has.
func (s *Server) seedStandardObjects() {
	for _, std := range []struct{ slug, singular, plural string }{
		{"people", "Person", "People"},
		{"companies", "Company", "Companies"},
		{"deals", "Deal", "Deals"},
	} {
		s.objects.Set(std.slug, objectData{
			ObjectID:     NewID(),
			APISlug:      std.slug,
			SingularNoun: std.singular,
			PluralNoun:   std.plural,
			CreatedAt:    now(),
		})
	}
}

// Reset clears all state except the standard objects.
func (s *Server) Reset() {
	s.objects.Reset()
	s.records.Reset()
	s.lists.Reset()
	s.entries.Reset()
	s.tasks.Reset()
	s.comments.Reset()
	s.threads.Reset()
	s.notes.Reset()
	s.webhooks.Reset()
	s.members.Reset()
	s.mu.Lock()
	s.failures = nil
	s.requests = nil
	s.mu.Unlock()
	s.seedStandardObjects()
}

// FailNext makes the next n requests fail with the given status.
func (s *Server) FailNext(status int, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.failures = append(s.failures, plannedFailure{status: status, code: "injected_failure"})
	}
}

// Requests returns a copy of all captured requests.
func (s *Server) Requests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent captured request.
func (s *Server) LastRequest() (CapturedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return CapturedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) captureRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, CapturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   body,
		})
		s.mu.Unlock()
		s.logger.Debug("mock request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.APIKey {
			attioError(w, http.StatusUnauthorized, "authentication_error", "unauthorized",
				"Invalid or missing API key.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var planned *plannedFailure
		if len(s.failures) > 0 {
			planned = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if planned != nil {
			attioError(w, planned.status, "server_error", planned.code, "Injected failure.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeData writes a {"data": ...} success envelope.
func writeData(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"data": v})
}

// writeList writes a list envelope with pagination metadata.
func writeList(w http.ResponseWriter, items any, hasMore bool, cursor string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"data":     items,
		"has_more": hasMore,
		"cursor":   cursor,
	})
}

// attioError writes an error response in Attio's flat error format.
func attioError(w http.ResponseWriter, status int, errType, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status_code": status,
		"type":        errType,
		"code":        code,
		"message":     message,
	})
}

// validationError writes a 400 with field-level detail.
func validationError(w http.ResponseWriter, message string, issues []map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"status_code":       http.StatusBadRequest,
		"type":              "invalid_request_error",
		"code":              "validation_type",
		"message":           message,
		"validation_errors": issues,
	})
}
