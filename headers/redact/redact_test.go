// headers/redact/redact_test.go
package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSetValue checks that the default set redacts sensitive values only when asked to.
func TestSetValue(t *testing.T) {
	cases := []struct {
		name              string
		hideSensitiveData bool
		key               string
		value             string
		expected          string
	}{
		{"Sensitive Key With Redaction", true, "x-access-token", "some-sensitive-token", Redacted},
		{"Sensitive Key Canonical Case", true, "X-Access-Token", "some-sensitive-token", Redacted},
		{"Sensitive Key Without Redaction", false, "x-access-token", "some-sensitive-token", "some-sensitive-token"},
		{"Refresh Token Field", true, "refresh_token", "r1", Redacted},
		{"Non-Sensitive Key With Redaction", true, "User-Agent", "MyCustomAgent", "MyCustomAgent"},
		{"Non-Sensitive Key Without Redaction", false, "User-Agent", "MyCustomAgent", "MyCustomAgent"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NewSet().Value(tc.hideSensitiveData, tc.key, tc.value)
			assert.Equal(t, tc.expected, result, "Redacted value should match the expected outcome")
		})
	}
}

func TestNewSetExtraKeys(t *testing.T) {
	s := NewSet("X-Session-Key", "")

	assert.True(t, s.Contains("x-session-key"))
	assert.True(t, s.Contains("Authorization"))
	assert.False(t, s.Contains(""))
	assert.Equal(t, Redacted, s.Value(true, "X-SESSION-KEY", "abc"))
}
