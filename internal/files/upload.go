package files

import (
	"context"
	"fmt"

	"github.com/filebridge/service/internal/discord"
)

// Upload holds the outcome of a successful chat-backend upload: the
// normalized attachment plus the backend that produced it.
type Upload struct {
	discord.Attachment
	Mode string `json:"mode"`
}

// Upload pushes data to the first chat backend that accepts it. Bot first,
// webhook second; unconfigured backends are skipped. The first structural
// success (a message carrying an attachment) wins and no further backend is
// tried. If every enabled backend fails, the aggregate carries each
// backend's labeled error. A backend that failed after creating remote state
// is not rolled back.
func (s *Store) Upload(ctx context.Context, filename, contentType string, data []byte) (*Upload, error) {
	var errs BackendErrors

	if s.botEnabled() {
		msg, err := s.bot.CreateMessage(ctx, s.cfg.ChannelID, filename, contentType, data)
		if err != nil {
			errs = append(errs, BackendError{Backend: ModeBot, Err: err})
		} else if att := discord.FirstAttachment(msg); att != nil {
			return &Upload{Attachment: *att, Mode: ModeBot}, nil
		} else {
			errs = append(errs, BackendError{Backend: ModeBot, Err: fmt.Errorf("message %s has no attachment", msg.ID)})
		}
	}

	if s.webhookEnabled() {
		msg, err := s.webhook.Execute(ctx, filename, contentType, data)
		if err != nil {
			errs = append(errs, BackendError{Backend: ModeWebhook, Err: err})
		} else if att := discord.FirstAttachment(msg); att != nil {
			return &Upload{Attachment: *att, Mode: ModeWebhook}, nil
		} else {
			errs = append(errs, BackendError{Backend: ModeWebhook, Err: fmt.Errorf("message %s has no attachment", msg.ID)})
		}
	}

	if len(errs) == 0 {
		return nil, ErrNoBackends
	}
	return nil, errs
}
