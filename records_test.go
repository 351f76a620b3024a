package attio_test

import (
	"context"
	"encoding/json"
	"testing"

	attio "github.com/rbeene/attio-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.Records.Create(ctx, "people", map[string]any{
		"name":            map[string]any{"first_name": "Ada", "last_name": "Lovelace", "full_name": "Ada Lovelace"},
		"email_addresses": []any{"ada@example.com"},
		"description":     "mathematician",
	})
	require.NoError(t, err)
	assert.True(t, created.IsPersisted())
	assert.False(t, created.Changed())
	assert.Equal(t, "people", created.Object())
	assert.False(t, created.CreatedAt().IsZero())

	got, err := c.Records.Get(ctx, "people", created.ID())
	require.NoError(t, err)

	name, _ := got.Get("name")
	assert.Equal(t, map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"full_name":  "Ada Lovelace",
	}, name)
	emails, _ := got.Get("email_addresses")
	assert.Equal(t, []any{"ada@example.com"}, emails)
	assert.Equal(t, "mathematician", got.GetString("description"))

	updated, err := c.Records.Update(ctx, "people", created.ID(), map[string]any{
		"description": "first programmer",
	})
	require.NoError(t, err)
	assert.Equal(t, "first programmer", updated.GetString("description"))

	require.NoError(t, c.Records.Delete(ctx, "people", created.ID()))

	_, err = c.Records.Get(ctx, "people", created.ID())
	var nf *attio.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestRecordSaveCreatesWhenUnpersisted(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	rec := c.Records.New("companies")
	assert.False(t, rec.IsPersisted())

	rec.Set("name", "Analytical Engines Ltd")
	rec.Set("description", "hardware")
	require.NoError(t, rec.Save(ctx))

	assert.True(t, rec.IsPersisted())
	assert.False(t, rec.Changed())

	got, err := c.Records.Get(ctx, "companies", rec.ID())
	require.NoError(t, err)
	assert.Equal(t, "Analytical Engines Ltd", got.GetString("name"))
}

func TestRecordSavePatchesOnlyChangedAttributes(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	rec, err := c.Records.Create(ctx, "companies", map[string]any{
		"name":        "Acme",
		"description": "widgets",
	})
	require.NoError(t, err)

	rec.Set("description", "gadgets")
	require.NoError(t, rec.Save(ctx))
	assert.False(t, rec.Changed())

	last, ok := srv.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "PATCH", last.Method)

	var body struct {
		Data struct {
			Values map[string]any `json:"values"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(last.Body, &body))
	assert.Len(t, body.Data.Values, 1)
	assert.Contains(t, body.Data.Values, "description")
}

func TestRecordSaveNoopWhenClean(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	rec, err := c.Records.Create(ctx, "companies", map[string]any{"name": "Acme"})
	require.NoError(t, err)

	before := len(srv.Requests())
	require.NoError(t, rec.Save(ctx))
	assert.Len(t, srv.Requests(), before)
}

func TestRecordDestroyInvalidates(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	rec, err := c.Records.Create(ctx, "companies", map[string]any{"name": "Acme"})
	require.NoError(t, err)

	require.NoError(t, rec.Destroy(ctx))
	assert.False(t, rec.IsPersisted())
	assert.Empty(t, rec.Attributes())
}

func TestRecordStructuredAttributeRejectedLocally(t *testing.T) {
	c, srv := newTestClient(t)
	before := len(srv.Requests())

	// A person's name is structured; a bare string must fail before any
	// request is made.
	_, err := c.Records.Create(context.Background(), "people", map[string]any{"name": "Ada Lovelace"})
	var verr *attio.InvalidValueError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Attribute)
	assert.Len(t, srv.Requests(), before)
}

func TestRecordReferenceExpansion(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	company, err := c.Records.Create(ctx, "companies", map[string]any{"name": "Acme"})
	require.NoError(t, err)
	companyID, err := company.ID().Resolve("record_id")
	require.NoError(t, err)

	person, err := c.Records.Create(ctx, "people", map[string]any{
		"name":    map[string]any{"first_name": "Ada", "last_name": "Lovelace"},
		"company": companyID,
	})
	require.NoError(t, err)

	last, ok := srv.LastRequest()
	require.True(t, ok)
	var body struct {
		Data struct {
			Values map[string]any `json:"values"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(last.Body, &body))
	assert.Equal(t, map[string]any{
		"target_object":    "companies",
		"target_record_id": companyID,
	}, body.Data.Values["company"])

	// On read the reference normalizes back to the bare record ID.
	got, err := c.Records.Get(ctx, "people", person.ID())
	require.NoError(t, err)
	ref, _ := got.Get("company")
	assert.Equal(t, companyID, ref)
}

func TestRecordAssertUpserts(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	results, err := c.Records.Assert(ctx, "people", "email_addresses", []map[string]any{
		{
			"name":            map[string]any{"first_name": "Ada", "last_name": "Lovelace"},
			"email_addresses": []any{"ada@example.com"},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	first := results[0].Record

	// Asserting the same matching value again updates in place.
	results, err = c.Records.Assert(ctx, "people", "email_addresses", []map[string]any{
		{
			"email_addresses": []any{"ada@example.com"},
			"description":     "first programmer",
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Record.ID().Equal(first.ID()))
	assert.Equal(t, "first programmer", results[0].Record.GetString("description"))
}

func TestRecordAssertReportsPerItemErrors(t *testing.T) {
	c, _ := newTestClient(t)

	results, err := c.Records.Assert(context.Background(), "people", "email_addresses", []map[string]any{
		{"name": "bad scalar"},
		{"email_addresses": []any{"ok@example.com"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var verr *attio.InvalidValueError
	assert.ErrorAs(t, results[0].Err, &verr)
	assert.NoError(t, results[1].Err)
	assert.NotNil(t, results[1].Record)
}

func TestRecordAssertRequiresMatchingAttribute(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Records.Assert(context.Background(), "people", "", nil)
	var verr *attio.InvalidValueError
	require.ErrorAs(t, err, &verr)
}

func TestRegisterSchemaDrivesCustomAttributes(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	_, err := c.Objects.Create(ctx, map[string]any{
		"api_slug":      "projects",
		"singular_noun": "Project",
		"plural_noun":   "Projects",
	})
	require.NoError(t, err)

	c.RegisterSchema("projects", attio.Schema{
		"lead": {Kind: attio.KindReference, TargetObject: "people"},
		"tags": {Multi: true},
	})

	_, err = c.Records.Create(ctx, "projects", map[string]any{
		"name": "Skunkworks",
		"lead": "rec_lead",
		"tags": []any{"internal"},
	})
	require.NoError(t, err)

	last, ok := srv.LastRequest()
	require.True(t, ok)
	var body struct {
		Data struct {
			Values map[string]any `json:"values"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(last.Body, &body))
	assert.Equal(t, map[string]any{
		"target_object":    "people",
		"target_record_id": "rec_lead",
	}, body.Data.Values["lead"])
	assert.Equal(t, []any{map[string]any{"value": "internal"}}, body.Data.Values["tags"])
}
