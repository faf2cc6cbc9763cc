package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
)

type apiKey struct {
	key       []byte
	principal Principal
}

// KeyRing holds the API keys that may be exchanged for tokens.
type KeyRing struct {
	keys []apiKey
}

// ParseKeyRing parses name:role:key entries.
func ParseKeyRing(entries []string) (*KeyRing, error) {
	ring := &KeyRing{}
	seen := map[string]bool{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		parts := strings.SplitN(e, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("api key entry must be name:role:key, got %q", redact(e))
		}
		role := Role(parts[1])
		if role != RoleViewer && role != RoleOperator {
			return nil, fmt.Errorf("api key %q: unknown role %q", parts[0], parts[1])
		}
		if seen[parts[0]] {
			return nil, fmt.Errorf("api key %q defined twice", parts[0])
		}
		seen[parts[0]] = true
		ring.keys = append(ring.keys, apiKey{
			key:       []byte(parts[2]),
			principal: Principal{Name: parts[0], Role: role},
		})
	}
	return ring, nil
}

// Len is the number of configured keys.
func (k *KeyRing) Len() int { return len(k.keys) }

// Authenticate returns the principal owning key. Every configured key is
// compared in constant time.
func (k *KeyRing) Authenticate(key string) (Principal, error) {
	var (
		found Principal
		ok    bool
	)
	for _, candidate := range k.keys {
		if subtle.ConstantTimeCompare(candidate.key, []byte(key)) == 1 {
			found, ok = candidate.principal, true
		}
	}
	if !ok || key == "" {
		return Principal{}, ErrInvalidCredentials
	}
	return found, nil
}

func redact(entry string) string {
	if i := strings.LastIndexByte(entry, ':'); i >= 0 {
		return entry[:i+1] + "***"
	}
	return "***"
}
