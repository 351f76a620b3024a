package attio

import "context"

// Meta describes the token itself and is read-only by nature.
var metaKind = resourceKind{
	name:        "meta",
	pathPattern: "self",
	idKey:       "workspace_id",
	caps:        Capabilities{Retrieve: true},
}

// Meta describes the authenticated token: its workspace, scopes and
// actor.
type Meta struct {
	Resource
}

// WorkspaceName returns the name of the token's workspace.
func (m *Meta) WorkspaceName() string { return m.GetString("workspace_name") }

// WorkspaceID returns the ID of the token's workspace.
func (m *Meta) WorkspaceID() string {
	id, err := m.ID().Resolve("workspace_id")
	if err != nil {
		return ""
	}
	return id
}

// MetaService identifies the current token.
type MetaService struct {
	client *Client
}

// Identify fetches the token's workspace and scope information from
// /self.
func (s *MetaService) Identify(ctx context.Context) (*Meta, error) {
	if err := metaKind.allow(opRetrieve); err != nil {
		return nil, err
	}
	env, err := s.client.do(ctx, "GET", "self", nil, nil)
	if err != nil {
		return nil, err
	}
	res, err := decodeEnvelope(s.client, &metaKind, nil, env, nil)
	if err != nil {
		return nil, err
	}
	return &Meta{Resource: res}, nil
}
