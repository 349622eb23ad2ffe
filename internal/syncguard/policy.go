package syncguard

import (
	"fmt"
	"strings"
)

// LoginPolicy decides what happens to the anonymous list when a session
// authenticates.
type LoginPolicy string

// Login policies.
const (
	// PolicyAbandon discards the anonymous list and rehydrates from remote.
	PolicyAbandon LoginPolicy = "abandon"
	// PolicyMerge replays the anonymous list into remote, then rehydrates.
	PolicyMerge LoginPolicy = "merge"
)

// ParseLoginPolicy accepts "abandon" or "merge". Empty means abandon.
func ParseLoginPolicy(s string) (LoginPolicy, error) {
	switch p := LoginPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyAbandon:
		return PolicyAbandon, nil
	case PolicyMerge:
		return PolicyMerge, nil
	default:
		return "", fmt.Errorf("unknown login policy %q", s)
	}
}
