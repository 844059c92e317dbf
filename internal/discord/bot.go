package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const apiBase = "https://discord.com/api/v10"

// BotClient is the privileged transport: a bot-token-authenticated REST
// client able to create, fetch, and delete messages in any channel within
// its permission scope.
type BotClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewBotClient creates a bot client for the given token.
func NewBotClient(token string) *BotClient {
	return &BotClient{
		token:   token,
		baseURL: apiBase,
		http:    newHTTPClient(),
	}
}

// CreateMessage posts a message carrying one file attachment to the channel
// and returns the created message.
func (c *BotClient) CreateMessage(ctx context.Context, channelID, filename, contentType string, data []byte) (*Message, error) {
	endpoint := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)

	req, err := newAttachmentRequest(ctx, endpoint, filename, contentType, data)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	return doMessage(c.http, req)
}

// GetMessage fetches a message by channel and message id.
func (c *BotClient) GetMessage(ctx context.Context, channelID, messageID string) (*Message, error) {
	endpoint := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	return doMessage(c.http, req)
}

// DeleteMessage removes a message. Discord answers 204 on success.
func (c *BotClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	endpoint := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	return doDelete(c.http, req)
}

// BotIdentity is the probe result of the privileged backend.
type BotIdentity struct {
	Username string `json:"username"`
}

// Probe verifies the token by fetching the bot's own identity.
func (c *BotClient) Probe(ctx context.Context) (*BotIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe bot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var id BotIdentity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &id, nil
}

func (c *BotClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bot "+c.token)
}
