// Package discord talks to the two Discord-side transports used to host
// file payloads: the bot REST API (privileged, bearer token) and the webhook
// API (unprivileged, URL-addressed). Both return the same message shape,
// normalized here into Attachment descriptors.
package discord

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config names the credentials of the two chat backends. A backend is
// enabled exactly when its fields are present; there is no separate toggle.
type Config struct {
	BotToken   string
	ChannelID  string
	WebhookURL string
}

// BotEnabled reports whether the privileged bot backend is configured.
func (c Config) BotEnabled() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

// WebhookEnabled reports whether the unprivileged webhook backend is configured.
func (c Config) WebhookEnabled() bool {
	return c.WebhookURL != ""
}

// Message is the wire shape both backends return from create and fetch calls.
type Message struct {
	ID          string          `json:"id"`
	ChannelID   string          `json:"channel_id"`
	Attachments []RawAttachment `json:"attachments"`
}

// RawAttachment is a single attachment as Discord reports it.
type RawAttachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

// Attachment is the canonical descriptor of a stored payload. URL is
// directly fetchable at the moment of creation; Discord may expire it later.
type Attachment struct {
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
	AttachmentID string `json:"attachmentId"`
	ChannelID    string `json:"channelId,omitempty"`
	MessageID    string `json:"messageId,omitempty"`
}

// FirstAttachment extracts the first attachment of a message into a
// descriptor. A nil return means the message carries no attachment, which
// is a legitimate terminal state for lookups, not an error.
func FirstAttachment(msg *Message) *Attachment {
	if msg == nil || len(msg.Attachments) == 0 {
		return nil
	}
	raw := msg.Attachments[0]
	return &Attachment{
		URL:          raw.URL,
		Filename:     raw.Filename,
		Size:         raw.Size,
		ContentType:  raw.ContentType,
		AttachmentID: raw.ID,
		ChannelID:    msg.ChannelID,
		MessageID:    msg.ID,
	}
}

// APIError is a non-2xx answer from either backend. Status carries the HTTP
// status code; Message the optional JSON "message" field of the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("discord api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("discord api: status %d", e.Status)
}

// IsNotFound reports whether err is an authoritative "does not exist" answer
// from a backend, as opposed to a transport or auth failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// newHTTPClient builds the outbound client both transports share.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
