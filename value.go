package attio

// ValueKind classifies the wire shape an attribute requires on write.
type ValueKind int

const (
	// KindScalar values travel as {"value": v} wrappers.
	KindScalar ValueKind = iota
	// KindStructured values must be supplied already shaped (a person's
	// name needs {first_name, last_name, full_name}; a domain needs
	// {domain: ...}). Bare scalars are rejected locally instead of being
	// mis-wrapped.
	KindStructured
	// KindReference values point at another record. On write a bare
	// record ID string is expanded into a reference object using the
	// attribute's target object.
	KindReference
)

// AttributeMeta declares how a single attribute is shaped on the wire.
// The zero value (single-valued scalar) is the default for attributes
// the SDK has no metadata for.
type AttributeMeta struct {
	Kind  ValueKind
	Multi bool
	// TargetObject is the slug of the referenced object for
	// KindReference attributes, used when expanding a bare ID on write.
	TargetObject string
}

// Schema maps attribute names to their wire metadata for one resource
// type (or one record object).
type Schema map[string]AttributeMeta

func (s Schema) meta(name string) AttributeMeta {
	if s == nil {
		return AttributeMeta{}
	}
	return s[name]
}

// merged returns a copy of s with overrides applied on top.
func (s Schema) merged(overrides Schema) Schema {
	out := make(Schema, len(s)+len(overrides))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ReadValue converts a wire-format attribute value into its in-memory
// form. Wrappers are unwrapped exactly once; reading an already-plain
// value is a no-op, so ingestion is idempotent. A single-element array
// collapses to its element only when meta declares the attribute
// single-valued.
func ReadValue(v any, meta AttributeMeta) any {
	switch val := v.(type) {
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return ReadValue(inner, AttributeMeta{Kind: meta.Kind})
		}
		if _, ok := val["target_object"]; ok {
			if rid, ok := val["target_record_id"]; ok {
				return rid
			}
			return val
		}
		return val
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ReadValue(elem, AttributeMeta{Kind: meta.Kind})
		}
		if !meta.Multi && len(out) == 1 {
			return out[0]
		}
		return out
	default:
		return v
	}
}

// WriteValue converts an in-memory attribute value into its wire form
// for a create or update request. The shaping is driven entirely by
// meta, never inferred from the runtime type alone.
func WriteValue(name string, v any, meta AttributeMeta) (any, error) {
	if meta.Multi {
		elems, ok := v.([]any)
		if !ok {
			if v == nil {
				elems = []any{}
			} else {
				elems = []any{v}
			}
		}
		single := AttributeMeta{Kind: meta.Kind, TargetObject: meta.TargetObject}
		out := make([]any, len(elems))
		for i, elem := range elems {
			w, err := WriteValue(name, elem, single)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	}

	switch meta.Kind {
	case KindStructured:
		switch val := v.(type) {
		case map[string]any:
			return val, nil
		case nil:
			return nil, nil
		default:
			return nil, &InvalidValueError{
				Attribute: name,
				Reason:    "requires a structured value, got a scalar",
			}
		}
	case KindReference:
		switch val := v.(type) {
		case map[string]any:
			return val, nil
		case string:
			if meta.TargetObject == "" {
				return nil, &InvalidValueError{
					Attribute: name,
					Reason:    "reference attribute has no target object declared",
				}
			}
			return map[string]any{
				"target_object":    meta.TargetObject,
				"target_record_id": val,
			}, nil
		case nil:
			return nil, nil
		default:
			return nil, &InvalidValueError{
				Attribute: name,
				Reason:    "reference value must be a record ID or reference object",
			}
		}
	default:
		switch val := v.(type) {
		case map[string]any:
			// Already-wrapped or caller-shaped values pass through.
			return val, nil
		case []any:
			out := make([]any, len(val))
			for i, elem := range val {
				w, err := WriteValue(name, elem, AttributeMeta{Kind: meta.Kind})
				if err != nil {
					return nil, err
				}
				out[i] = w
			}
			return out, nil
		default:
			return map[string]any{"value": val}, nil
		}
	}
}
