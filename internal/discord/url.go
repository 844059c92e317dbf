package discord

import (
	"fmt"
	"net/url"
	"strings"
)

// waitParam is the transport-only flag telling the webhook create call to
// return the created message synchronously. It is meaningful only on create
// and must never leak into lookup or delete URLs.
const waitParam = "wait"

// MessageURL builds the URL addressing either the webhook's generic post
// endpoint (empty messageID) or a specific previously-posted message under
// it. Query parameters on the base URL are preserved except "wait".
func MessageURL(base, messageID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse webhook url: %w", err)
	}

	q := u.Query()
	q.Del(waitParam)
	u.RawQuery = q.Encode()

	if messageID != "" {
		u.Path = strings.TrimRight(u.Path, "/") + "/messages/" + messageID
	}

	return u.String(), nil
}
