package attio

import "reflect"

// attrState tracks the attribute mapping of a single resource instance
// between load and save: the current values, a deep-copied snapshot of
// the values at load time (or last reset), and the set of changed names.
//
// "Changed" means the current value differs from the original snapshot,
// not from the previous write. Setting an attribute back to its loaded
// value clears its changed mark.
//
// attrState is not safe for concurrent use; callers serialize access to
// each resource instance.
type attrState struct {
	attrs    map[string]any
	original map[string]any
	changed  map[string]struct{}
}

func newAttrState(attrs map[string]any) *attrState {
	if attrs == nil {
		attrs = map[string]any{}
	}
	return &attrState{
		attrs:    deepCopyMap(attrs),
		original: deepCopyMap(attrs),
		changed:  map[string]struct{}{},
	}
}

func (s *attrState) get(name string) (any, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

func (s *attrState) set(name string, v any) {
	orig, hadOrig := s.original[name]
	if hadOrig && reflect.DeepEqual(orig, v) {
		delete(s.changed, name)
	} else {
		s.changed[name] = struct{}{}
	}
	s.attrs[name] = deepCopyValue(v)
}

func (s *attrState) isChanged() bool {
	return len(s.changed) > 0
}

// changedAttributes returns the changed names mapped to their current
// values, suitable for a partial-update payload.
func (s *attrState) changedAttributes() map[string]any {
	out := make(map[string]any, len(s.changed))
	for name := range s.changed {
		out[name] = deepCopyValue(s.attrs[name])
	}
	return out
}

// reset resyncs the original snapshot to the current values and clears
// the changed set. Called after a successful save.
func (s *attrState) reset() {
	s.original = deepCopyMap(s.attrs)
	s.changed = map[string]struct{}{}
}

// revert discards local edits, restoring the attributes from the
// original snapshot.
func (s *attrState) revert() {
	s.attrs = deepCopyMap(s.original)
	s.changed = map[string]struct{}{}
}

// snapshot returns a deep copy of the current attributes.
func (s *attrState) snapshot() map[string]any {
	return deepCopyMap(s.attrs)
}

// clear wipes all state. Used when a resource is destroyed.
func (s *attrState) clear() {
	s.attrs = map[string]any{}
	s.original = map[string]any{}
	s.changed = map[string]struct{}{}
}

// deepCopyValue structurally clones nested maps and slices. Scalars are
// returned as-is.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = deepCopyValue(elem)
		}
		return out
	default:
		return v
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}
