package files

import (
	"context"
	"log"
)

// ConnStatus is the merged health report across the chat backends.
type ConnStatus struct {
	Connected bool   `json:"connected"`
	Mode      string `json:"mode"`
	Name      string `json:"name,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
}

// Status probes every configured backend independently — no short-circuit,
// the point is a composite report. Probe failures are swallowed; a health
// check never raises. Both healthy → mode "both"; exactly one → that one's
// mode; none healthy or none configured → disconnected.
func (s *Store) Status(ctx context.Context) ConnStatus {
	var (
		botOK     bool
		webhookOK bool
		name      string
		channelID string
	)

	if s.botEnabled() {
		id, err := s.bot.Probe(ctx)
		if err != nil {
			log.Printf("bot probe failed: %v", err)
		} else {
			botOK = true
			name = id.Username
			channelID = s.cfg.ChannelID
		}
	}

	if s.webhookEnabled() {
		info, err := s.webhook.Probe(ctx)
		if err != nil {
			log.Printf("webhook probe failed: %v", err)
		} else {
			webhookOK = true
			if name == "" {
				name = info.Name
			}
			if channelID == "" {
				channelID = info.ChannelID
			}
		}
	}

	switch {
	case botOK && webhookOK:
		return ConnStatus{Connected: true, Mode: ModeBoth, Name: name, ChannelID: channelID}
	case botOK:
		return ConnStatus{Connected: true, Mode: ModeBot, Name: name, ChannelID: channelID}
	case webhookOK:
		return ConnStatus{Connected: true, Mode: ModeWebhook, Name: name, ChannelID: channelID}
	default:
		return ConnStatus{Connected: false, Mode: ModeNone}
	}
}
