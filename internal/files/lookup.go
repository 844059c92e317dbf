package files

import (
	"context"

	"github.com/filebridge/service/internal/discord"
)

// Lookup resolves a stored message into a fresh attachment descriptor.
// Each backend attempt ends in one of three states: found (short-circuits),
// confirmed absent (an authoritative not-found, not an error), or transport
// failure (labeled, next backend is tried).
//
// Outcomes: no backend configured → ErrNoBackends. Nothing found and at
// least one transport error → the aggregated BackendErrors, because the
// caller cannot safely tell "deleted" from "backend outage". Every attempted
// backend confirmed absence → ErrAbsent.
func (s *Store) Lookup(ctx context.Context, channelID, messageID string) (*Upload, error) {
	if !s.botEnabled() && !s.webhookEnabled() {
		return nil, ErrNoBackends
	}

	var errs BackendErrors

	if s.botEnabled() {
		msg, err := s.bot.GetMessage(ctx, channelID, messageID)
		switch {
		case err == nil:
			if att := discord.FirstAttachment(msg); att != nil {
				return &Upload{Attachment: *att, Mode: ModeBot}, nil
			}
			// message exists but carries no attachment: confirmed absent
		case !discord.IsNotFound(err):
			errs = append(errs, BackendError{Backend: ModeBot, Err: err})
		}
	}

	if s.webhookEnabled() {
		msg, err := s.webhook.GetMessage(ctx, messageID)
		switch {
		case err == nil:
			if att := discord.FirstAttachment(msg); att != nil {
				return &Upload{Attachment: *att, Mode: ModeWebhook}, nil
			}
		case !discord.IsNotFound(err):
			errs = append(errs, BackendError{Backend: ModeWebhook, Err: err})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return nil, ErrAbsent
}
