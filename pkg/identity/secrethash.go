package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SecretHash derives the per-user client digest some app clients require:
// base64(HMAC-SHA256(key=clientSecret, msg=username+clientID)).
//
// It returns nil when no client secret is configured, so callers can assign
// the result straight into an optional request field. username must be the
// exact string sent to the provider in the same call.
func SecretHash(username, clientID, clientSecret string) *string {
	if clientSecret == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	digest := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return &digest
}
