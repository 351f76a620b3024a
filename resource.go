package attio

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"time"
)

// Capabilities declares which operations a resource type supports. They
// are checked centrally before any request is dispatched; violations
// raise ImmutableResourceError without touching the network.
type Capabilities struct {
	Retrieve bool
	List     bool
	Create   bool
	Update   bool
	Delete   bool
}

// resourceKind is the static description of one resource type: its API
// path, the key that resolves its identifier, how its attributes travel
// on the wire, and what it is allowed to do.
type resourceKind struct {
	name string
	// pathPattern is a fmt pattern for the collection path. ctxN is the
	// number of cross-resource context values it needs (the object slug
	// for records, the list for entries).
	pathPattern string
	ctxN        int
	// idKey resolves the scalar path segment from a composite ID.
	idKey string
	// valuesKey nests attributes under a wire key ("values" for records
	// and entries); empty means attributes are flat on the payload.
	valuesKey string
	caps      Capabilities
	schema    Schema
}

func (k *resourceKind) collectionPath(ctxParts []string) (string, error) {
	if len(ctxParts) != k.ctxN {
		return "", &IdentifierError{
			Key:    k.idKey,
			Reason: fmt.Sprintf("%s requires %d context value(s), got %d", k.name, k.ctxN, len(ctxParts)),
		}
	}
	args := make([]any, len(ctxParts))
	for i, p := range ctxParts {
		if p == "" {
			return "", &IdentifierError{Key: k.idKey, Reason: k.name + " context value is empty"}
		}
		args[i] = p
	}
	return fmt.Sprintf(k.pathPattern, args...), nil
}

func (k *resourceKind) instancePath(ctxParts []string, id Identifier) (string, error) {
	base, err := k.collectionPath(ctxParts)
	if err != nil {
		return "", err
	}
	sid, err := id.Resolve(k.idKey)
	if err != nil {
		return "", err
	}
	return base + "/" + sid, nil
}

// Resource is the base of every typed resource. It composes the
// identifier, the normalized attribute mapping with dirty tracking, and
// the read-only creation timestamp.
//
// A Resource is not safe for concurrent mutation from multiple
// goroutines; callers serialize access to each instance.
type Resource struct {
	id        Identifier
	createdAt time.Time

	kind    *resourceKind
	state   *attrState
	client  *Client
	pathCtx []string
}

// ID returns the resource's identifier. Zero until persisted.
func (r *Resource) ID() Identifier { return r.id }

// CreatedAt returns the server-assigned creation timestamp.
func (r *Resource) CreatedAt() time.Time { return r.createdAt }

// IsPersisted reports whether the resource has a server identity.
func (r *Resource) IsPersisted() bool { return !r.id.IsZero() }

// Get returns the normalized value of the named attribute.
func (r *Resource) Get(name string) (any, bool) {
	if r.state == nil {
		return nil, false
	}
	return r.state.get(name)
}

// GetString returns the named attribute as a string, or "" when absent
// or of another type.
func (r *Resource) GetString(name string) string {
	v, _ := r.Get(name)
	s, _ := v.(string)
	return s
}

// GetBool returns the named attribute as a bool.
func (r *Resource) GetBool(name string) bool {
	v, _ := r.Get(name)
	b, _ := v.(bool)
	return b
}

// Set writes the named attribute and records it as changed when the new
// value differs from the value loaded from the server. Setting an
// attribute back to its loaded value clears the mark.
func (r *Resource) Set(name string, v any) {
	if r.state == nil {
		r.state = newAttrState(nil)
	}
	r.state.set(name, v)
}

// Attributes returns a deep copy of the current attribute mapping.
func (r *Resource) Attributes() map[string]any {
	if r.state == nil {
		return map[string]any{}
	}
	return r.state.snapshot()
}

// Changed reports whether any attribute differs from its loaded value.
func (r *Resource) Changed() bool {
	return r.state != nil && r.state.isChanged()
}

// ChangedAttributes returns the changed attribute names mapped to their
// current values.
func (r *Resource) ChangedAttributes() map[string]any {
	if r.state == nil {
		return map[string]any{}
	}
	return r.state.changedAttributes()
}

// Revert discards local edits, restoring all attributes to their loaded
// values.
func (r *Resource) Revert() {
	if r.state != nil {
		r.state.revert()
	}
}

// Equal reports whether two resources are the same kind with the same
// identifier and the same full attribute mapping.
func (r *Resource) Equal(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.kind != other.kind {
		return false
	}
	if !r.id.Equal(other.id) {
		return false
	}
	return reflect.DeepEqual(r.Attributes(), other.Attributes())
}

// Save persists local changes. A persisted resource issues a partial
// update containing only the changed attributes; an unpersisted one
// issues a create with the full attribute set and adopts the returned
// identity. After a successful save the changed set is empty.
func (r *Resource) Save(ctx context.Context) error {
	if r.client == nil || r.kind == nil {
		return fmt.Errorf("attio: resource is not bound to a client")
	}
	if r.IsPersisted() {
		if !r.kind.caps.Update {
			return &ImmutableResourceError{Resource: r.kind.name, Op: "update"}
		}
		if !r.Changed() {
			return nil
		}
		path, err := r.kind.instancePath(r.pathCtx, r.id)
		if err != nil {
			return err
		}
		body, err := r.kind.requestBody(r.ChangedAttributes(), r.schemaOverrides())
		if err != nil {
			return err
		}
		env, err := r.client.do(ctx, http.MethodPatch, path, nil, body)
		if err != nil {
			return err
		}
		return r.adoptEnvelope(env)
	}

	if !r.kind.caps.Create {
		return &ImmutableResourceError{Resource: r.kind.name, Op: "create"}
	}
	path, err := r.kind.collectionPath(r.pathCtx)
	if err != nil {
		return err
	}
	body, err := r.kind.requestBody(r.Attributes(), r.schemaOverrides())
	if err != nil {
		return err
	}
	env, err := r.client.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return r.adoptEnvelope(env)
}

// Destroy deletes the resource on the server and invalidates the local
// instance: the identifier is cleared and the attribute mapping emptied.
func (r *Resource) Destroy(ctx context.Context) error {
	if r.client == nil || r.kind == nil {
		return fmt.Errorf("attio: resource is not bound to a client")
	}
	if !r.kind.caps.Delete {
		return &ImmutableResourceError{Resource: r.kind.name, Op: "delete"}
	}
	path, err := r.kind.instancePath(r.pathCtx, r.id)
	if err != nil {
		return err
	}
	if _, err := r.client.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	r.id = Identifier{}
	if r.state != nil {
		r.state.clear()
	}
	return nil
}

// schemaOverrides returns per-object schema registered on the client for
// record-shaped resources, nil otherwise.
func (r *Resource) schemaOverrides() Schema {
	if r.client == nil || r.kind.valuesKey == "" || len(r.pathCtx) == 0 {
		return nil
	}
	return r.client.schemaFor(r.pathCtx[0])
}

// adoptEnvelope re-decodes the server's view of the resource and adopts
// it, preserving the client binding and path context.
func (r *Resource) adoptEnvelope(env *apiEnvelope) error {
	data, err := env.objectData()
	if err != nil {
		return err
	}
	decoded, err := decodeResource(r.kind, data, r.schemaOverrides())
	if err != nil {
		return err
	}
	r.id = decoded.id
	if !decoded.createdAt.IsZero() {
		r.createdAt = decoded.createdAt
	}
	r.state = decoded.state
	return nil
}

// requestBody builds the {"data": ...} request body. Egress
// normalization applies only to resources whose attributes nest under a
// values key; flat resources carry their fields unwrapped.
func (k *resourceKind) requestBody(values map[string]any, overrides Schema) (map[string]any, error) {
	if k.valuesKey == "" {
		return map[string]any{"data": deepCopyMap(values)}, nil
	}
	schema := k.schema
	if len(overrides) > 0 {
		schema = schema.merged(overrides)
	}
	wire := make(map[string]any, len(values))
	for name, v := range values {
		w, err := WriteValue(name, v, schema.meta(name))
		if err != nil {
			return nil, err
		}
		wire[name] = w
	}
	return map[string]any{"data": map[string]any{k.valuesKey: wire}}, nil
}

// decodeResource builds a Resource from a wire payload: the identifier
// (flat or composite), the creation timestamp, and the ingested
// attribute mapping. The changed set starts empty.
func decodeResource(kind *resourceKind, data map[string]any, overrides Schema) (Resource, error) {
	schema := kind.schema
	if len(overrides) > 0 {
		schema = schema.merged(overrides)
	}

	res := Resource{kind: kind}
	if raw, ok := data["id"]; ok {
		res.id = identifierFromWire(raw)
	}
	if ts, ok := data["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			res.createdAt = t
		}
	}

	var attrs map[string]any
	if kind.valuesKey != "" {
		src, _ := data[kind.valuesKey].(map[string]any)
		attrs = make(map[string]any, len(src))
		for name, v := range src {
			attrs[name] = ReadValue(v, schema.meta(name))
		}
	} else {
		// Flat resources carry plain fields; no unwrapping, and arrays
		// such as a webhook's subscriptions keep their length.
		attrs = make(map[string]any, len(data))
		for name, v := range data {
			if name == "id" || name == "created_at" {
				continue
			}
			attrs[name] = v
		}
	}
	res.state = newAttrState(attrs)
	return res, nil
}
