package attio

import (
	"context"
	"net/http"
)

// Workspace members are managed in the Attio app, not through the API;
// the resource is strictly read-only.
var memberKind = resourceKind{
	name:        "workspace_member",
	pathPattern: "workspace_members",
	idKey:       "workspace_member_id",
	caps:        Capabilities{Retrieve: true, List: true},
}

// WorkspaceMember is a user of the workspace.
type WorkspaceMember struct {
	Resource
}

// EmailAddress returns the member's email address.
func (m *WorkspaceMember) EmailAddress() string { return m.GetString("email_address") }

// AccessLevel returns the member's access level (admin, member, ...).
func (m *WorkspaceMember) AccessLevel() string { return m.GetString("access_level") }

// WorkspaceMemberService reads workspace members.
type WorkspaceMemberService struct {
	client *Client
}

// List returns all workspace members.
func (s *WorkspaceMemberService) List(ctx context.Context, params ListParams) (*Page[*WorkspaceMember], error) {
	if err := memberKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "workspace_members", params, func(item map[string]any) (*WorkspaceMember, error) {
		res, err := decodeBound(s.client, &memberKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &WorkspaceMember{Resource: res}, nil
	})
}

// Get fetches one workspace member.
func (s *WorkspaceMemberService) Get(ctx context.Context, id Identifier) (*WorkspaceMember, error) {
	res, err := getResource(ctx, s.client, &memberKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &WorkspaceMember{Resource: res}, nil
}
