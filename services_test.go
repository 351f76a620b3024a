package attio_test

import (
	"context"
	"testing"
	"time"

	attio "github.com/rbeene/attio-go"
	"github.com/rbeene/attio-go/attiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectService(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	page, err := c.Objects.List(ctx, attio.ListParams{})
	require.NoError(t, err)
	slugs := map[string]bool{}
	for _, o := range page.Data {
		slugs[o.Slug()] = true
	}
	assert.True(t, slugs["people"])
	assert.True(t, slugs["companies"])
	assert.True(t, slugs["deals"])

	created, err := c.Objects.Create(ctx, map[string]any{
		"api_slug":      "projects",
		"singular_noun": "Project",
		"plural_noun":   "Projects",
	})
	require.NoError(t, err)
	assert.Equal(t, "projects", created.Slug())

	got, err := c.Objects.Get(ctx, attio.ID("projects"))
	require.NoError(t, err)
	assert.Equal(t, "Project", got.GetString("singular_noun"))

	updated, err := c.Objects.Update(ctx, attio.ID("projects"), map[string]any{
		"singular_noun": "Initiative",
	})
	require.NoError(t, err)
	assert.Equal(t, "Initiative", updated.GetString("singular_noun"))

	// Objects cannot be deleted; the rejection is local.
	before := len(srv.Requests())
	err = got.Destroy(ctx)
	var imm *attio.ImmutableResourceError
	require.ErrorAs(t, err, &imm)
	assert.Equal(t, "delete", imm.Op)
	assert.Len(t, srv.Requests(), before)

	_, err = c.Objects.Create(ctx, map[string]any{"api_slug": "incomplete"})
	var verr *attio.InvalidValueError
	require.ErrorAs(t, err, &verr)
}

func TestAttributeSchemaFor(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	page, err := c.Attributes.List(ctx, "people", attio.ListParams{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Data)

	schema, err := c.Attributes.SchemaFor(ctx, "people")
	require.NoError(t, err)

	assert.Equal(t, attio.KindStructured, schema["name"].Kind)
	assert.True(t, schema["email_addresses"].Multi)
	assert.Equal(t, attio.KindScalar, schema["email_addresses"].Kind)
	assert.Equal(t, attio.KindReference, schema["company"].Kind)
	assert.Equal(t, "companies", schema["company"].TargetObject)
	assert.Equal(t, attio.KindScalar, schema["description"].Kind)
}

func TestListAndEntryLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	list, err := c.Lists.Create(ctx, map[string]any{
		"name":          "Hot Deals",
		"api_slug":      "hot-deals",
		"parent_object": "deals",
	})
	require.NoError(t, err)
	assert.Equal(t, "hot-deals", list.Slug())

	got, err := c.Lists.Get(ctx, attio.ID("hot-deals"))
	require.NoError(t, err)
	assert.Equal(t, "Hot Deals", got.GetString("name"))

	rec, err := c.Records.Create(ctx, "deals", map[string]any{"name": "Big deal"})
	require.NoError(t, err)
	recID, err := rec.ID().Resolve("record_id")
	require.NoError(t, err)

	entry, err := c.Entries.Create(ctx, "hot-deals", "deals", recID, map[string]any{
		"priority": "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "hot-deals", entry.ListSlug())
	assert.Equal(t, "deals", entry.ParentObject())
	assert.Equal(t, recID, entry.ParentRecordID())
	assert.Equal(t, "high", entry.GetString("priority"))

	page, err := c.Entries.List(ctx, "hot-deals", attio.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, recID, page.Data[0].ParentRecordID())

	updated, err := c.Entries.Update(ctx, "hot-deals", entry.ID(), map[string]any{
		"priority": "low",
	})
	require.NoError(t, err)
	assert.Equal(t, "low", updated.GetString("priority"))

	require.NoError(t, c.Entries.Delete(ctx, "hot-deals", entry.ID()))
	page, err = c.Entries.List(ctx, "hot-deals", attio.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	// An entry cannot be addressed without its list.
	_, err = c.Entries.Get(ctx, "", entry.ID())
	var ierr *attio.IdentifierError
	require.ErrorAs(t, err, &ierr)

	_, err = c.Entries.Create(ctx, "hot-deals", "", "", nil)
	require.ErrorAs(t, err, &ierr)
}

func TestTaskLifecycle(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	deadline := time.Now().Add(48 * time.Hour)
	task, err := c.Tasks.Create(ctx, attio.TaskCreateParams{
		Content:  "Call Ada about the engine",
		Deadline: deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, "Call Ada about the engine", task.Content())
	assert.False(t, task.IsCompleted())

	got, err := c.Tasks.Get(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, task.Content(), got.Content())

	updated, err := c.Tasks.Update(ctx, task.ID(), map[string]any{"is_completed": true})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted())

	page, err := c.Tasks.List(ctx, attio.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	require.NoError(t, c.Tasks.Delete(ctx, task.ID()))

	// Required fields fail locally.
	before := len(srv.Requests())
	_, err = c.Tasks.Create(ctx, attio.TaskCreateParams{Deadline: deadline})
	var verr *attio.InvalidValueError
	require.ErrorAs(t, err, &verr)
	_, err = c.Tasks.Create(ctx, attio.TaskCreateParams{Content: "no deadline"})
	require.ErrorAs(t, err, &verr)
	assert.Len(t, srv.Requests(), before)
}

func TestCommentsAndThreads(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	rec, err := c.Records.Create(ctx, "people", map[string]any{
		"name": map[string]any{"first_name": "Ada", "last_name": "Lovelace"},
	})
	require.NoError(t, err)
	recID, err := rec.ID().Resolve("record_id")
	require.NoError(t, err)

	// Commenting on a record starts a thread.
	first, err := c.Comments.Create(ctx, attio.CommentCreateParams{
		Content: "Interesting lead",
		Record:  &attio.RecordRef{Object: "people", RecordID: recID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Interesting lead", first.ContentPlaintext())
	threadID := first.GetString("thread_id")
	require.NotEmpty(t, threadID)

	// Replying targets the existing thread.
	_, err = c.Comments.Create(ctx, attio.CommentCreateParams{
		Content:  "Agreed, following up",
		ThreadID: threadID,
	})
	require.NoError(t, err)

	thread, err := c.Threads.Get(ctx, attio.ID(threadID))
	require.NoError(t, err)
	comments, _ := thread.Get("comments")
	assert.Len(t, comments, 2)

	page, err := c.Threads.List(ctx, attio.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	require.NoError(t, c.Comments.Delete(ctx, first.ID()))

	// Exactly one anchor: neither or both are rejected locally.
	var verr *attio.InvalidValueError
	_, err = c.Comments.Create(ctx, attio.CommentCreateParams{Content: "orphan"})
	require.ErrorAs(t, err, &verr)
	_, err = c.Comments.Create(ctx, attio.CommentCreateParams{
		Content:  "both",
		ThreadID: threadID,
		Record:   &attio.RecordRef{Object: "people", RecordID: recID},
	})
	require.ErrorAs(t, err, &verr)
}

func TestNoteLifecycle(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	rec, err := c.Records.Create(ctx, "companies", map[string]any{"name": "Acme"})
	require.NoError(t, err)
	recID, err := rec.ID().Resolve("record_id")
	require.NoError(t, err)

	note, err := c.Notes.Create(ctx, attio.NoteCreateParams{
		ParentObject:   "companies",
		ParentRecordID: recID,
		Title:          "Kickoff call",
		Content:        "Discussed pricing.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff call", note.Title())

	got, err := c.Notes.Get(ctx, note.ID())
	require.NoError(t, err)
	assert.Equal(t, "Discussed pricing.", got.GetString("content_plaintext"))

	page, err := c.Notes.List(ctx, attio.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// Notes are immutable once written.
	before := len(srv.Requests())
	got.Set("title", "Edited")
	err = got.Save(ctx)
	var imm *attio.ImmutableResourceError
	require.ErrorAs(t, err, &imm)
	assert.Len(t, srv.Requests(), before)

	require.NoError(t, c.Notes.Delete(ctx, note.ID()))
}

func TestWebhookLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	wh, err := c.Webhooks.Create(ctx, attio.WebhookCreateParams{
		TargetURL: "https://example.com/hooks/attio",
		Subscriptions: []attio.Subscription{
			{EventType: "record.created"},
			{EventType: "record.updated", Filter: map[string]any{"$and": []any{}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hooks/attio", wh.TargetURL())
	// The signing secret is disclosed exactly once, on create.
	require.NotEmpty(t, wh.Secret())

	got, err := c.Webhooks.Get(ctx, wh.ID())
	require.NoError(t, err)
	assert.Empty(t, got.Secret())

	updated, err := c.Webhooks.Update(ctx, wh.ID(), map[string]any{
		"target_url": "https://example.com/hooks/v2",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hooks/v2", updated.TargetURL())

	page, err := c.Webhooks.List(ctx, attio.ListParams{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	require.NoError(t, c.Webhooks.Delete(ctx, wh.ID()))

	// Local validation: plain http and empty subscriptions never reach
	// the network.
	var verr *attio.InvalidValueError
	_, err = c.Webhooks.Create(ctx, attio.WebhookCreateParams{
		TargetURL:     "http://example.com/insecure",
		Subscriptions: []attio.Subscription{{EventType: "record.created"}},
	})
	require.ErrorAs(t, err, &verr)
	_, err = c.Webhooks.Create(ctx, attio.WebhookCreateParams{
		TargetURL: "https://example.com/hooks",
	})
	require.ErrorAs(t, err, &verr)
}

func TestWorkspaceMembers(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, srv.Apply(&attiotest.Seed{
		Members: []attiotest.SeedMember{
			{FirstName: "Ada", LastName: "Lovelace", EmailAddress: "ada@example.com", AccessLevel: "admin"},
			{FirstName: "Grace", LastName: "Hopper", EmailAddress: "grace@example.com"},
		},
	}))

	page, err := c.WorkspaceMembers.List(ctx, attio.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "ada@example.com", page.Data[0].EmailAddress())
	assert.Equal(t, "admin", page.Data[0].AccessLevel())
	assert.Equal(t, "member", page.Data[1].AccessLevel())

	member, err := c.WorkspaceMembers.Get(ctx, page.Data[0].ID())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", member.EmailAddress())

	// Members are read-only.
	err = member.Destroy(ctx)
	var imm *attio.ImmutableResourceError
	require.ErrorAs(t, err, &imm)
}
