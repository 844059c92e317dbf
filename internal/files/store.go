package files

import (
	"context"
	"errors"
	"strings"

	"github.com/filebridge/service/internal/discord"
)

// Mode identifies which chat backend produced a result.
const (
	ModeBot     = "bot"
	ModeWebhook = "webhook"
	ModeBoth    = "both"
	ModeNone    = "none"
)

// ErrNoBackends is returned when an operation needs a chat backend and none
// is configured. Distinct from ErrAbsent: "never checked" must not be
// conflated with "checked and missing".
var ErrNoBackends = errors.New("no chat backend configured")

// ErrAbsent is returned when every attempted backend authoritatively
// reported the message does not exist.
var ErrAbsent = errors.New("message not found on any backend")

// BackendError is one backend's labeled failure.
type BackendError struct {
	Backend string // ModeBot or ModeWebhook
	Err     error
}

func (e BackendError) Error() string {
	return e.Backend + ": " + e.Err.Error()
}

func (e BackendError) Unwrap() error { return e.Err }

// BackendErrors aggregates per-backend failures in attempt order. The slice
// is kept intact so callers can tell which backend failed how; Error joins
// the labels into the single combined message operators see.
type BackendErrors []BackendError

func (e BackendErrors) Error() string {
	parts := make([]string, len(e))
	for i, be := range e {
		parts[i] = be.Error()
	}
	return strings.Join(parts, "; ")
}

// botAPI is the privileged transport surface the coordinators need.
type botAPI interface {
	CreateMessage(ctx context.Context, channelID, filename, contentType string, data []byte) (*discord.Message, error)
	GetMessage(ctx context.Context, channelID, messageID string) (*discord.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	Probe(ctx context.Context) (*discord.BotIdentity, error)
}

// webhookAPI is the unprivileged transport surface.
type webhookAPI interface {
	Execute(ctx context.Context, filename, contentType string, data []byte) (*discord.Message, error)
	GetMessage(ctx context.Context, messageID string) (*discord.Message, error)
	DeleteMessage(ctx context.Context, messageID string) error
	Probe(ctx context.Context) (*discord.WebhookInfo, error)
}

// Store coordinates the two chat backends. The bot always outranks the
// webhook; backends are tried strictly in that order, one attempt each,
// never concurrently — the ordering is the fallback policy.
type Store struct {
	cfg     discord.Config
	bot     botAPI
	webhook webhookAPI
}

// NewStore builds a Store from backend configuration, instantiating a client
// for each backend whose credentials are present.
func NewStore(cfg discord.Config) *Store {
	s := &Store{cfg: cfg}
	if cfg.BotEnabled() {
		s.bot = discord.NewBotClient(cfg.BotToken)
	}
	if cfg.WebhookEnabled() {
		s.webhook = discord.NewWebhookClient(cfg.WebhookURL)
	}
	return s
}

func (s *Store) botEnabled() bool     { return s.bot != nil }
func (s *Store) webhookEnabled() bool { return s.webhook != nil }
