package attio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadValueScalar(t *testing.T) {
	meta := AttributeMeta{}

	assert.Equal(t, "Ada", ReadValue(map[string]any{"value": "Ada"}, meta))
	assert.Equal(t, 42.0, ReadValue(map[string]any{"value": 42.0}, meta))

	// Reading an already-plain value is a no-op.
	assert.Equal(t, "Ada", ReadValue("Ada", meta))
	assert.Equal(t, "Ada", ReadValue(ReadValue(map[string]any{"value": "Ada"}, meta), meta))
}

func TestReadValueSingleElementCollapse(t *testing.T) {
	wire := []any{map[string]any{"value": "ada@example.com"}}

	// Metadata says single-valued: collapse.
	got := ReadValue(wire, AttributeMeta{})
	assert.Equal(t, "ada@example.com", got)

	// Metadata says multi-valued: a one-element array stays an array.
	got = ReadValue(wire, AttributeMeta{Multi: true})
	assert.Equal(t, []any{"ada@example.com"}, got)
}

func TestReadValueMultiElement(t *testing.T) {
	wire := []any{
		map[string]any{"value": "a@example.com"},
		map[string]any{"value": "b@example.com"},
	}
	got := ReadValue(wire, AttributeMeta{Multi: true})
	assert.Equal(t, []any{"a@example.com", "b@example.com"}, got)

	// Even without multi metadata, a longer array never collapses.
	got = ReadValue(wire, AttributeMeta{})
	assert.Equal(t, []any{"a@example.com", "b@example.com"}, got)
}

func TestReadValueReference(t *testing.T) {
	wire := map[string]any{
		"target_object":    "companies",
		"target_record_id": "rec_9",
	}
	got := ReadValue(wire, AttributeMeta{Kind: KindReference})
	assert.Equal(t, "rec_9", got)

	// A reference object without a record ID passes through untouched.
	partial := map[string]any{"target_object": "companies"}
	assert.Equal(t, partial, ReadValue(partial, AttributeMeta{Kind: KindReference}))
}

func TestReadValueStructuredMapPreserved(t *testing.T) {
	wire := map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"full_name":  "Ada Lovelace",
	}
	got := ReadValue(wire, AttributeMeta{Kind: KindStructured})
	assert.Equal(t, wire, got)
}

func TestWriteValueScalar(t *testing.T) {
	got, err := WriteValue("description", "hi", AttributeMeta{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": "hi"}, got)
}

func TestWriteValueStructured(t *testing.T) {
	name := map[string]any{"first_name": "Ada", "last_name": "Lovelace"}
	got, err := WriteValue("name", name, AttributeMeta{Kind: KindStructured})
	require.NoError(t, err)
	assert.Equal(t, name, got)

	// A bare scalar for a structured attribute is rejected locally
	// instead of being mis-wrapped.
	_, err = WriteValue("name", "Ada Lovelace", AttributeMeta{Kind: KindStructured})
	var verr *InvalidValueError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Attribute)
}

func TestWriteValueReference(t *testing.T) {
	meta := AttributeMeta{Kind: KindReference, TargetObject: "companies"}

	got, err := WriteValue("company", "rec_9", meta)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"target_object":    "companies",
		"target_record_id": "rec_9",
	}, got)

	// Caller-shaped reference objects pass through.
	shaped := map[string]any{"target_object": "people", "target_record_id": "rec_1"}
	got, err = WriteValue("company", shaped, meta)
	require.NoError(t, err)
	assert.Equal(t, shaped, got)

	// A bare ID with no declared target cannot be expanded.
	_, err = WriteValue("company", "rec_9", AttributeMeta{Kind: KindReference})
	var verr *InvalidValueError
	require.ErrorAs(t, err, &verr)

	_, err = WriteValue("company", 42, meta)
	require.ErrorAs(t, err, &verr)
}

func TestWriteValueMulti(t *testing.T) {
	meta := AttributeMeta{Multi: true}

	got, err := WriteValue("email_addresses", []any{"a@example.com", "b@example.com"}, meta)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"value": "a@example.com"},
		map[string]any{"value": "b@example.com"},
	}, got)

	// A single value written to a multi attribute becomes a one-element
	// array.
	got, err = WriteValue("email_addresses", "a@example.com", meta)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"value": "a@example.com"}}, got)

	got, err = WriteValue("email_addresses", nil, meta)
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}

func TestWriteValueMultiReference(t *testing.T) {
	meta := AttributeMeta{Kind: KindReference, TargetObject: "people", Multi: true}
	got, err := WriteValue("team", []any{"rec_1", "rec_2"}, meta)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"target_object": "people", "target_record_id": "rec_1"},
		map[string]any{"target_object": "people", "target_record_id": "rec_2"},
	}, got)
}

func TestWriteValueNil(t *testing.T) {
	got, err := WriteValue("name", nil, AttributeMeta{Kind: KindStructured})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = WriteValue("company", nil, AttributeMeta{Kind: KindReference, TargetObject: "companies"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestValueRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		meta AttributeMeta
		v    any
	}{
		{"scalar", AttributeMeta{}, "hello"},
		{"number", AttributeMeta{}, 3.5},
		{"multi scalar", AttributeMeta{Multi: true}, []any{"a", "b"}},
		{"reference", AttributeMeta{Kind: KindReference, TargetObject: "companies"}, "rec_1"},
		{
			"structured",
			AttributeMeta{Kind: KindStructured},
			map[string]any{"first_name": "Ada", "last_name": "Lovelace"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wire, err := WriteValue("attr", tc.v, tc.meta)
			require.NoError(t, err)
			assert.Equal(t, tc.v, ReadValue(wire, tc.meta))
		})
	}
}

func TestSchemaMerged(t *testing.T) {
	base := Schema{
		"name":    {Kind: KindStructured},
		"company": {Kind: KindReference, TargetObject: "companies"},
	}
	merged := base.merged(Schema{
		"company": {Kind: KindReference, TargetObject: "orgs"},
		"custom":  {Multi: true},
	})

	assert.Equal(t, KindStructured, merged.meta("name").Kind)
	assert.Equal(t, "orgs", merged.meta("company").TargetObject)
	assert.True(t, merged.meta("custom").Multi)
	// Unknown attributes default to single-valued scalars.
	assert.Equal(t, AttributeMeta{}, merged.meta("unknown"))
	// The base is untouched.
	assert.Equal(t, "companies", base.meta("company").TargetObject)
}
