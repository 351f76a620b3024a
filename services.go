package attio

import (
	"context"
	"net/http"
)

// operation names the generic CRUD verbs gated by Capabilities.
type operation int

const (
	opRetrieve operation = iota
	opList
	opCreate
	opUpdate
	opDelete
)

func (o operation) String() string {
	switch o {
	case opRetrieve:
		return "retrieve"
	case opList:
		return "list"
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	}
	return "unknown"
}

// allow is the single capability gate for every dispatch path. It runs
// before identifiers are resolved or requests built, so a disallowed
// operation never reaches the network.
func (k *resourceKind) allow(o operation) error {
	ok := false
	switch o {
	case opRetrieve:
		ok = k.caps.Retrieve
	case opList:
		ok = k.caps.List
	case opCreate:
		ok = k.caps.Create
	case opUpdate:
		ok = k.caps.Update
	case opDelete:
		ok = k.caps.Delete
	}
	if !ok {
		return &ImmutableResourceError{Resource: k.name, Op: o.String()}
	}
	return nil
}

// getResource fetches one resource by resolved identifier.
func getResource(ctx context.Context, c *Client, kind *resourceKind, ctxParts []string, id Identifier, overrides Schema) (Resource, error) {
	if err := kind.allow(opRetrieve); err != nil {
		return Resource{}, err
	}
	path, err := kind.instancePath(ctxParts, id)
	if err != nil {
		return Resource{}, err
	}
	env, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return Resource{}, err
	}
	return decodeEnvelope(c, kind, ctxParts, env, overrides)
}

// createResource issues a create with egress-normalized values and
// decodes the response into a fresh instance with an empty changed set.
func createResource(ctx context.Context, c *Client, kind *resourceKind, ctxParts []string, values map[string]any, overrides Schema) (Resource, error) {
	if err := kind.allow(opCreate); err != nil {
		return Resource{}, err
	}
	path, err := kind.collectionPath(ctxParts)
	if err != nil {
		return Resource{}, err
	}
	body, err := kind.requestBody(values, overrides)
	if err != nil {
		return Resource{}, err
	}
	env, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return Resource{}, err
	}
	return decodeEnvelope(c, kind, ctxParts, env, overrides)
}

// createResourceRaw issues a create with a caller-shaped request body,
// for endpoints whose payload is not a plain attribute mapping.
func createResourceRaw(ctx context.Context, c *Client, kind *resourceKind, ctxParts []string, body map[string]any, overrides Schema) (Resource, error) {
	if err := kind.allow(opCreate); err != nil {
		return Resource{}, err
	}
	path, err := kind.collectionPath(ctxParts)
	if err != nil {
		return Resource{}, err
	}
	env, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return Resource{}, err
	}
	return decodeEnvelope(c, kind, ctxParts, env, overrides)
}

// updateResource issues a partial update with egress-normalized values.
func updateResource(ctx context.Context, c *Client, kind *resourceKind, ctxParts []string, id Identifier, values map[string]any, overrides Schema) (Resource, error) {
	if err := kind.allow(opUpdate); err != nil {
		return Resource{}, err
	}
	path, err := kind.instancePath(ctxParts, id)
	if err != nil {
		return Resource{}, err
	}
	body, err := kind.requestBody(values, overrides)
	if err != nil {
		return Resource{}, err
	}
	env, err := c.do(ctx, http.MethodPatch, path, nil, body)
	if err != nil {
		return Resource{}, err
	}
	return decodeEnvelope(c, kind, ctxParts, env, overrides)
}

// deleteResource deletes by resolved identifier. The caller invalidates
// any local instance; this helper does not track living instances.
func deleteResource(ctx context.Context, c *Client, kind *resourceKind, ctxParts []string, id Identifier) error {
	if err := kind.allow(opDelete); err != nil {
		return err
	}
	path, err := kind.instancePath(ctxParts, id)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func decodeEnvelope(c *Client, kind *resourceKind, ctxParts []string, env *apiEnvelope, overrides Schema) (Resource, error) {
	data, err := env.objectData()
	if err != nil {
		return Resource{}, err
	}
	return decodeBound(c, kind, ctxParts, data, overrides)
}

// decodeBound decodes a wire payload and binds the resulting resource to
// the client so Save and Destroy work on it.
func decodeBound(c *Client, kind *resourceKind, ctxParts []string, data map[string]any, overrides Schema) (Resource, error) {
	res, err := decodeResource(kind, data, overrides)
	if err != nil {
		return Resource{}, err
	}
	res.client = c
	res.pathCtx = ctxParts
	return res, nil
}
