package files

import (
	"context"
	"log"
)

// Delete removes a stored message, best effort. Bot first, webhook second;
// a failing backend is logged and the next one is tried. Returns true as
// soon as any backend reports success and false otherwise, including when
// no backend is configured. Never returns an error: callers needing to know
// why a delete failed go through the purge path instead.
func (s *Store) Delete(ctx context.Context, channelID, messageID string) bool {
	if s.botEnabled() {
		if err := s.bot.DeleteMessage(ctx, channelID, messageID); err != nil {
			log.Printf("bot delete of message %s failed: %v", messageID, err)
		} else {
			return true
		}
	}

	if s.webhookEnabled() {
		if err := s.webhook.DeleteMessage(ctx, messageID); err != nil {
			log.Printf("webhook delete of message %s failed: %v", messageID, err)
		} else {
			return true
		}
	}

	return false
}
