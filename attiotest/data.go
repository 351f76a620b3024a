package attiotest

import "time"

// The stored shapes below keep attribute values in plain form; the
// handlers apply Attio's value wrapping on the way out and strip it on
// the way in.

type objectData struct {
	ObjectID     string
	APISlug      string
	SingularNoun string
	PluralNoun   string
	CreatedAt    time.Time
}

type recordData struct {
	RecordID  string
	Object    string
	Values    map[string]any
	CreatedAt time.Time
}

type listData struct {
	ListID       string
	APISlug      string
	Name         string
	ParentObject string
	CreatedAt    time.Time
}

type entryData struct {
	EntryID        string
	ListID         string
	ParentObject   string
	ParentRecordID string
	Values         map[string]any
	CreatedAt      time.Time
}

type taskData struct {
	TaskID      string
	Content     string
	Format      string
	DeadlineAt  string
	IsCompleted bool
	Assignees   []any
	Linked      []any
	CreatedAt   time.Time
}

type commentData struct {
	CommentID string
	ThreadID  string
	Content   string
	CreatedAt time.Time
}

type threadData struct {
	ThreadID  string
	CreatedAt time.Time
}

type noteData struct {
	NoteID         string
	ParentObject   string
	ParentRecordID string
	Title          string
	Content        string
	CreatedAt      time.Time
}

type webhookData struct {
	WebhookID     string
	TargetURL     string
	Subscriptions []any
	Secret        string
	Status        string
	CreatedAt     time.Time
}

type memberData struct {
	MemberID     string
	FirstName    string
	LastName     string
	EmailAddress string
	AccessLevel  string
	CreatedAt    time.Time
}

// wrapValues renders a plain attribute mapping in Attio's wire shape:
// every value becomes an array, scalars gain a {"value": ...} wrapper,
// structured maps ride along unwrapped.
func wrapValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, v := range values {
		if elems, ok := v.([]any); ok {
			wrapped := make([]any, len(elems))
			for i, elem := range elems {
				wrapped[i] = wrapElement(elem)
			}
			out[name] = wrapped
		} else {
			out[name] = []any{wrapElement(v)}
		}
	}
	return out
}

func wrapElement(v any) any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": v}
}

// unwrapValues strips the wire wrapping from an incoming values payload
// into plain storage form. Single-element arrays collapse; longer ones
// stay arrays.
func unwrapValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, v := range values {
		out[name] = unwrapElement(v)
	}
	return out
}

func unwrapElement(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return unwrapElement(inner)
		}
		return val
	case []any:
		plain := make([]any, len(val))
		for i, elem := range val {
			plain[i] = unwrapElement(elem)
		}
		if len(plain) == 1 {
			return plain[0]
		}
		return plain
	default:
		return v
	}
}
