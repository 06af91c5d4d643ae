// Package cursor encodes store continuation keys as opaque, URL-safe
// pagination tokens.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/userdir/userdir-server/internal/model"
)

// Encode serializes a continuation key into a transport-safe token.
// An empty or nil key yields the empty token, meaning "no more data".
func Encode(key model.Key) string {
	if len(key) == 0 {
		return ""
	}
	// The key is a flat string map, marshaling cannot fail.
	raw, _ := json.Marshal(key)
	return base64.URLEncoding.EncodeToString(raw)
}

// Decode reverses Encode. The key's semantic validity against current
// data is not checked here; a stale token is the store's problem.
func Decode(token string) (model.Key, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedCursor, err)
	}

	var key model.Key
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedCursor, err)
	}
	if len(key) == 0 {
		return nil, model.ErrMalformedCursor
	}

	return key, nil
}
