package session

import "encoding/json"

// RemoteConfig is the open extension map the hub returns alongside the
// device-registration payload. It is untyped by design: the server controls
// the key set and clients must not assume any schema. Values are kept as raw
// JSON and interpreted on demand.
type RemoteConfig map[string]json.RawMessage

func (rc RemoteConfig) clone() RemoteConfig {
	if rc == nil {
		return nil
	}
	out := make(RemoteConfig, len(rc))
	for k, v := range rc {
		out[k] = v
	}
	return out
}

// String reads a string-valued key. The second return is false when the key
// is absent or holds a non-string value.
func (rc RemoteConfig) String(key string) (string, bool) {
	raw, ok := rc[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Bool reads a bool-valued key.
func (rc RemoteConfig) Bool(key string) (bool, bool) {
	raw, ok := rc[key]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// Int reads an integer-valued key.
func (rc RemoteConfig) Int(key string) (int, bool) {
	raw, ok := rc[key]
	if !ok {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}
