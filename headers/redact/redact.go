// headers/redact/redact.go
package redact

import "strings"

// Redacted replaces the value of any sensitive header or log field.
const Redacted = "REDACTED"

// defaultSensitiveKeys are masked whenever redaction is enabled.
var defaultSensitiveKeys = []string{
	"Authorization",
	"AccessToken",
	"x-access-token",
	"access_token",
	"refresh_token",
	"token",
	"Cookie",
	"Set-Cookie",
}

// Set is a case-insensitive set of header names or log field keys holding credentials.
type Set map[string]struct{}

// NewSet returns the default sensitive keys plus any extra keys, such as a
// custom access-token header name.
func NewSet(extra ...string) Set {
	s := make(Set, len(defaultSensitiveKeys)+len(extra))
	for _, k := range defaultSensitiveKeys {
		s[strings.ToLower(k)] = struct{}{}
	}
	for _, k := range extra {
		if k != "" {
			s[strings.ToLower(k)] = struct{}{}
		}
	}
	return s
}

// Contains reports whether key is sensitive.
func (s Set) Contains(key string) bool {
	_, ok := s[strings.ToLower(key)]
	return ok
}

// Value returns Redacted for sensitive keys when hideSensitiveData is set,
// and value unchanged otherwise.
func (s Set) Value(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && s.Contains(key) {
		return Redacted
	}
	return value
}
