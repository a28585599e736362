package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "secret123", false},
		{"Exactly Min Length", "abcdef", false},
		{"Too Short", "abcde", true},
		{"Empty", "", true},
		{"Exactly Max Bytes", strings.Repeat("a", 72), false},
		{"Too Long", strings.Repeat("a", 73), true},
		{"Unicode Counts Runes", "åäöåäö", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "alice_92", false},
		{"Exactly Min", "bob", false},
		{"Exactly Max", strings.Repeat("a", 50), false},
		{"Too Short", "al", true},
		{"Too Long", strings.Repeat("a", 51), true},
		{"Illegal Chars", "alice@campus", true},
		{"Space", "alice smith", true},
		{"Starts Dash", "-alice", true},
		{"Ends Underscore", "alice_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "alice@campus.edu", false},
		{"Empty", "", true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"No TLD", "user@localhost", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Display Name", "Alice <alice@campus.edu>", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
		{"Too Long", strings.Repeat("a", 95) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
