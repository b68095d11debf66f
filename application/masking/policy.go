package masking

import "strings"

// DefaultReplacement is used when a policy is built with an empty replacement.
const DefaultReplacement = "****"

// Policy decides which keys are sensitive. Keys are compared case-insensitively
// against JSON field names, header names and query/form keys.
type Policy struct {
	enabled     bool
	keys        map[string]struct{}
	replacement string
}

// NewPolicy builds a policy. Blank keys are ignored.
func NewPolicy(enabled bool, keys []string, replacement string) Policy {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		set[strings.ToLower(k)] = struct{}{}
	}
	if replacement == "" {
		replacement = DefaultReplacement
	}
	return Policy{enabled: enabled, keys: set, replacement: replacement}
}

// Disabled returns a policy that never masks.
func Disabled() Policy {
	return NewPolicy(false, nil, "")
}

// Active reports whether the policy can mask anything at all.
func (p Policy) Active() bool {
	return p.enabled && len(p.keys) > 0
}

// Matches reports whether values stored under key must be replaced.
func (p Policy) Matches(key string) bool {
	if !p.Active() {
		return false
	}
	_, ok := p.keys[strings.ToLower(key)]
	return ok
}

// Replacement returns the replacement token.
func (p Policy) Replacement() string {
	if p.replacement == "" {
		return DefaultReplacement
	}
	return p.replacement
}

// MaskValues returns values unchanged, or one replacement per value when key matches.
func (p Policy) MaskValues(key string, values []string) []string {
	if !p.Matches(key) {
		return values
	}
	masked := make([]string, len(values))
	for i := range masked {
		masked[i] = p.Replacement()
	}
	return masked
}
