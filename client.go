package attio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client talks to the Attio API. Create one with NewClient; all fields
// are configured through options and a Client is safe for concurrent use
// (individual resource instances are not).
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	retryDelay time.Duration

	schemasMu sync.RWMutex
	schemas   map[string]Schema

	Records          *RecordService
	Objects          *ObjectService
	Attributes       *AttributeService
	Lists            *ListService
	Entries          *EntryService
	Tasks            *TaskService
	Comments         *CommentService
	Threads          *ThreadService
	Notes            *NoteService
	Webhooks         *WebhookService
	WorkspaceMembers *WorkspaceMemberService
	Meta             *MetaService
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint, e.g. an
// attiotest server in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the structured logger. Requests log at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMaxRetries bounds the retries applied to 429/503 responses.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithRetryDelay sets the base delay of the exponential backoff.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
		schemas:    map[string]Schema{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Records = &RecordService{client: c}
	c.Objects = &ObjectService{client: c}
	c.Attributes = &AttributeService{client: c}
	c.Lists = &ListService{client: c}
	c.Entries = &EntryService{client: c}
	c.Tasks = &TaskService{client: c}
	c.Comments = &CommentService{client: c}
	c.Threads = &ThreadService{client: c}
	c.Notes = &NoteService{client: c}
	c.Webhooks = &WebhookService{client: c}
	c.WorkspaceMembers = &WorkspaceMemberService{client: c}
	c.Meta = &MetaService{client: c}
	return c
}

// RegisterSchema declares attribute metadata for one record object,
// overriding the built-in defaults. Use Attributes.SchemaFor to build a
// schema from the object's live attribute definitions.
func (c *Client) RegisterSchema(object string, schema Schema) {
	c.schemasMu.Lock()
	defer c.schemasMu.Unlock()
	c.schemas[object] = c.schemas[object].merged(schema)
}

func (c *Client) schemaFor(object string) Schema {
	c.schemasMu.RLock()
	defer c.schemasMu.RUnlock()
	return defaultObjectSchemas[object].merged(c.schemas[object])
}

// apiEnvelope is the success response envelope: the payload under
// "data", plus pagination metadata on list responses.
type apiEnvelope struct {
	Data    json.RawMessage `json:"data"`
	HasMore bool            `json:"has_more"`
	Cursor  string          `json:"cursor"`
}

func (e *apiEnvelope) objectData() (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(e.Data, &m); err != nil {
		return nil, fmt.Errorf("attio: decoding response payload: %w", err)
	}
	return m, nil
}

func (e *apiEnvelope) listData() ([]map[string]any, error) {
	var items []map[string]any
	if err := json.Unmarshal(e.Data, &items); err != nil {
		return nil, fmt.Errorf("attio: decoding list payload: %w", err)
	}
	return items, nil
}

// do issues one API request and decodes the response envelope. 429 and
// 503 responses are retried with jittered exponential backoff up to
// maxRetries; ambiguous transport failures are retried only for
// idempotent methods, so a create is never replayed after a failure the
// server may already have processed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*apiEnvelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("attio: encoding request body: %w", err)
		}
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("attio: creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "attio-go/"+Version)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < c.maxRetries && idempotent(method) {
				c.logger.Debug("transport error, retrying", "method", method, "path", path, "attempt", attempt+1, "err", err)
				if serr := c.sleep(ctx, c.backoff(attempt)); serr != nil {
					return nil, serr
				}
				continue
			}
			return nil, fmt.Errorf("attio: %s %s: %w", method, path, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("attio: reading response: %w", err)
		}

		c.logger.Debug("request complete", "method", method, "path", path, "status", resp.StatusCode, "attempt", attempt+1)

		if resp.StatusCode < 400 {
			var env apiEnvelope
			if len(respBody) > 0 {
				if err := json.Unmarshal(respBody, &env); err != nil {
					return nil, fmt.Errorf("attio: decoding response envelope: %w", err)
				}
			}
			return &env, nil
		}

		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		apiErr := errorFromResponse(method, path, resp.StatusCode, parseWireError(respBody), retryAfter)

		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) && attempt < c.maxRetries {
			delay := c.backoff(attempt)
			if retryAfter > delay {
				delay = retryAfter
			}
			c.logger.Debug("retryable status, backing off", "method", method, "path", path, "status", resp.StatusCode, "delay", delay)
			if serr := c.sleep(ctx, delay); serr != nil {
				return nil, serr
			}
			continue
		}
		return nil, apiErr
	}
}

// backoff returns the jittered exponential delay for the given attempt.
func (c *Client) backoff(attempt int) time.Duration {
	base := c.retryDelay << attempt
	if base <= 0 {
		return 0
	}
	return base + time.Duration(rand.Int63n(int64(base/2+1)))
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// parseWireError accepts both the {"error": {...}} envelope and a flat
// error body.
func parseWireError(body []byte) wireError {
	var wrapped struct {
		Error *wireError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil {
		return *wrapped.Error
	}
	var flat wireError
	json.Unmarshal(body, &flat)
	return flat
}

func parseRetryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// listPage runs one list request and decodes each item with decode,
// threading the server's cursor metadata through unmodified. GET lists
// pass cursor and limit as query parameters; POST lists send the full
// query body (filter, sorts, cursor, limit).
func listPage[T any](ctx context.Context, c *Client, method, path string, params ListParams, decode func(map[string]any) (T, error)) (*Page[T], error) {
	var (
		env *apiEnvelope
		err error
	)
	if method == http.MethodPost {
		env, err = c.do(ctx, method, path, nil, params.queryBody())
	} else {
		query := url.Values{}
		if params.Cursor != "" {
			query.Set("cursor", params.Cursor)
		}
		if params.Limit > 0 {
			query.Set("limit", strconv.Itoa(params.Limit))
		}
		env, err = c.do(ctx, method, path, query, nil)
	}
	if err != nil {
		return nil, err
	}

	items, err := env.listData()
	if err != nil {
		return nil, err
	}
	page := &Page[T]{
		Data:    make([]T, 0, len(items)),
		HasMore: env.HasMore,
		Cursor:  env.Cursor,
	}
	for _, item := range items {
		decoded, err := decode(item)
		if err != nil {
			return nil, err
		}
		page.Data = append(page.Data, decoded)
	}
	return page, nil
}
