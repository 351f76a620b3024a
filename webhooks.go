package attio

import (
	"context"
	"net/http"
	"strings"
)

var webhookKind = resourceKind{
	name:        "webhook",
	pathPattern: "webhooks",
	idKey:       "webhook_id",
	caps:        Capabilities{Retrieve: true, List: true, Create: true, Update: true, Delete: true},
}

// Webhook is a delivery target for workspace events. The secret used to
// verify signatures is returned only by Create.
type Webhook struct {
	Resource
}

// TargetURL returns the delivery URL.
func (w *Webhook) TargetURL() string { return w.GetString("target_url") }

// Secret returns the signing secret. Populated only on the instance
// returned by Create; subsequent retrieves omit it.
func (w *Webhook) Secret() string { return w.GetString("secret") }

// Subscription subscribes a webhook to one event type, optionally
// filtered.
type Subscription struct {
	EventType string         `json:"event_type"`
	Filter    map[string]any `json:"filter,omitempty"`
}

// WebhookCreateParams are the fields of a webhook create request. An
// HTTPS target URL and at least one subscription are required; both are
// validated locally.
type WebhookCreateParams struct {
	TargetURL     string
	Subscriptions []Subscription
}

// WebhookService operates on webhook registrations.
type WebhookService struct {
	client *Client
}

// List returns registered webhooks.
func (s *WebhookService) List(ctx context.Context, params ListParams) (*Page[*Webhook], error) {
	if err := webhookKind.allow(opList); err != nil {
		return nil, err
	}
	return listPage(ctx, s.client, http.MethodGet, "webhooks", params, func(item map[string]any) (*Webhook, error) {
		res, err := decodeBound(s.client, &webhookKind, nil, item, nil)
		if err != nil {
			return nil, err
		}
		return &Webhook{Resource: res}, nil
	})
}

// Get fetches one webhook.
func (s *WebhookService) Get(ctx context.Context, id Identifier) (*Webhook, error) {
	res, err := getResource(ctx, s.client, &webhookKind, nil, id, nil)
	if err != nil {
		return nil, err
	}
	return &Webhook{Resource: res}, nil
}

// Create registers a webhook after validating required sub-fields
// locally.
func (s *WebhookService) Create(ctx context.Context, params WebhookCreateParams) (*Webhook, error) {
	if params.TargetURL == "" {
		return nil, &InvalidValueError{Attribute: "target_url", Reason: "required"}
	}
	if !strings.HasPrefix(params.TargetURL, "https://") {
		return nil, &InvalidValueError{Attribute: "target_url", Reason: "must be an https URL"}
	}
	if len(params.Subscriptions) == 0 {
		return nil, &InvalidValueError{Attribute: "subscriptions", Reason: "at least one subscription is required"}
	}
	for _, sub := range params.Subscriptions {
		if sub.EventType == "" {
			return nil, &InvalidValueError{Attribute: "subscriptions", Reason: "subscription event_type is required"}
		}
	}
	body := map[string]any{"data": map[string]any{
		"target_url":    params.TargetURL,
		"subscriptions": params.Subscriptions,
	}}
	res, err := createResourceRaw(ctx, s.client, &webhookKind, nil, body, nil)
	if err != nil {
		return nil, err
	}
	return &Webhook{Resource: res}, nil
}

// Update reconfigures a webhook's target or subscriptions.
func (s *WebhookService) Update(ctx context.Context, id Identifier, values map[string]any) (*Webhook, error) {
	res, err := updateResource(ctx, s.client, &webhookKind, nil, id, values, nil)
	if err != nil {
		return nil, err
	}
	return &Webhook{Resource: res}, nil
}

// Delete unregisters a webhook.
func (s *WebhookService) Delete(ctx context.Context, id Identifier) error {
	return deleteResource(ctx, s.client, &webhookKind, nil, id)
}
