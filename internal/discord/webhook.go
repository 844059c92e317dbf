package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// WebhookClient is the unprivileged transport: authenticated solely by the
// webhook URL, limited to messages it created or can address by message id.
type WebhookClient struct {
	url  string
	http *http.Client
}

// NewWebhookClient creates a webhook client for the given webhook URL. Query
// parameters on the URL (e.g. thread_id) are kept on every call.
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		url:  webhookURL,
		http: newHTTPClient(),
	}
}

// Execute posts a message carrying one file attachment through the webhook
// and waits synchronously for the created message.
func (c *WebhookClient) Execute(ctx context.Context, filename, contentType string, data []byte) (*Message, error) {
	endpoint, err := MessageURL(c.url, "")
	if err != nil {
		return nil, err
	}
	// wait=true makes Discord return the created message instead of 204.
	// Only valid on create, which is why MessageURL strips it everywhere else.
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse webhook url: %w", err)
	}
	q := u.Query()
	q.Set(waitParam, "true")
	u.RawQuery = q.Encode()

	req, err := newAttachmentRequest(ctx, u.String(), filename, contentType, data)
	if err != nil {
		return nil, err
	}

	return doMessage(c.http, req)
}

// GetMessage fetches a webhook-created message by its id.
func (c *WebhookClient) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	endpoint, err := MessageURL(c.url, messageID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return doMessage(c.http, req)
}

// DeleteMessage deletes a webhook-created message by its id.
func (c *WebhookClient) DeleteMessage(ctx context.Context, messageID string) error {
	endpoint, err := MessageURL(c.url, messageID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return doDelete(c.http, req)
}

// WebhookInfo is the probe result of the unprivileged backend.
type WebhookInfo struct {
	Name      string `json:"name"`
	ChannelID string `json:"channel_id"`
}

// Probe verifies the webhook URL by fetching the webhook object itself.
func (c *WebhookClient) Probe(ctx context.Context) (*WebhookInfo, error) {
	endpoint, err := MessageURL(c.url, "")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var info WebhookInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode webhook info: %w", err)
	}
	return &info, nil
}
