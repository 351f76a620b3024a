package attio

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Identifier is an opaque resource identifier. Attio returns IDs in two
// shapes: a flat string, or a composite object mapping named scopes to
// strings, e.g. {"workspace_id": ..., "object_id": ..., "record_id": ...}.
// Identifier models both as a tagged variant; callers treat it as opaque
// and the SDK resolves the scope each resource type needs for path
// construction.
type Identifier struct {
	scalar    string
	composite map[string]string
}

// ID returns a scalar identifier.
func ID(s string) Identifier {
	return Identifier{scalar: s}
}

// CompositeID returns a composite identifier from named scope parts.
func CompositeID(parts map[string]string) Identifier {
	cp := make(map[string]string, len(parts))
	for k, v := range parts {
		cp[k] = v
	}
	return Identifier{composite: cp}
}

// IsZero reports whether the identifier carries no value at all.
func (id Identifier) IsZero() bool {
	return id.scalar == "" && len(id.composite) == 0
}

// Part returns the named scope of a composite identifier.
func (id Identifier) Part(key string) (string, bool) {
	v, ok := id.composite[key]
	return v, ok
}

// Resolve returns the scalar value to embed in a request path for the
// given resource-specific key. A scalar identifier resolves to itself
// regardless of key; a composite identifier resolves to its value at key.
func (id Identifier) Resolve(key string) (string, error) {
	if id.IsZero() {
		return "", &IdentifierError{Key: key, Reason: "identifier is empty"}
	}
	if id.scalar != "" {
		return id.scalar, nil
	}
	v, ok := id.composite[key]
	if !ok {
		return "", &IdentifierError{Key: key, Reason: "composite identifier has no such key"}
	}
	if v == "" {
		return "", &IdentifierError{Key: key, Reason: "identifier value is empty"}
	}
	return v, nil
}

// Equal reports whether two identifiers carry the same value.
func (id Identifier) Equal(other Identifier) bool {
	if id.scalar != other.scalar || len(id.composite) != len(other.composite) {
		return false
	}
	for k, v := range id.composite {
		if other.composite[k] != v {
			return false
		}
	}
	return true
}

// String renders the identifier for logs. Composite parts are sorted for
// determinism.
func (id Identifier) String() string {
	if id.scalar != "" {
		return id.scalar
	}
	if len(id.composite) == 0 {
		return ""
	}
	keys := make([]string, 0, len(id.composite))
	for k := range id.composite {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%s", k, id.composite[k])
	}
	return b.String()
}

// MarshalJSON writes the identifier back in its wire shape.
func (id Identifier) MarshalJSON() ([]byte, error) {
	if len(id.composite) > 0 {
		return json.Marshal(id.composite)
	}
	return json.Marshal(id.scalar)
}

// UnmarshalJSON accepts either a flat string or an object of string
// scopes. Non-string scope values are ignored rather than rejected; the
// API occasionally nests extra metadata alongside the scopes.
func (id *Identifier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = Identifier{scalar: s}
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("attio: identifier must be a string or object: %w", err)
	}
	parts := make(map[string]string, len(m))
	for k, v := range m {
		if sv, ok := v.(string); ok {
			parts[k] = sv
		}
	}
	*id = Identifier{composite: parts}
	return nil
}

// identifierFromWire converts a decoded JSON value into an Identifier.
func identifierFromWire(raw any) Identifier {
	switch v := raw.(type) {
	case string:
		return Identifier{scalar: v}
	case map[string]any:
		parts := make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := val.(string); ok {
				parts[k] = s
			}
		}
		return Identifier{composite: parts}
	}
	return Identifier{}
}
