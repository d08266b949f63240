package service

import (
	"strings"
	"testing"

	"github.com/inkwell-next/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	strict := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
		ForbidEmail:   true,
	}
	cases := []struct {
		name     string
		policy   config.PasswordPolicyConfig
		password string
		email    string
		wantKey  string
	}{
		{name: "empty policy", policy: config.PasswordPolicyConfig{}, password: "x", email: "ada@example.com"},
		{name: "too short", policy: strict, password: "Ab1", email: "ada@example.com", wantKey: "error.password_min_length"},
		{name: "missing upper", policy: strict, password: "abcdefg1", email: "ada@example.com", wantKey: "error.password_require_upper"},
		{name: "missing number", policy: strict, password: "Abcdefgh", email: "ada@example.com", wantKey: "error.password_require_number"},
		{name: "contains email name", policy: strict, password: "xxLovelace2024", email: "lovelace@example.com", wantKey: "error.password_contains_email"},
		{name: "short email name ignored", policy: strict, password: "Adaline2024", email: "ad@example.com"},
		{name: "email check disabled", policy: config.PasswordPolicyConfig{MinLength: 8}, password: "lovelace-rocks", email: "lovelace@example.com"},
		{name: "over bcrypt limit", policy: config.PasswordPolicyConfig{}, password: strings.Repeat("a", 73), email: "", wantKey: "error.password_max_length"},
		{name: "valid", policy: strict, password: "Correct9Horse", email: "ada@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.policy, tc.password, tc.email)
			if tc.wantKey == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrWeakPassword)
			perr, ok := err.(passwordPolicyError)
			require.True(t, ok)
			assert.Equal(t, tc.wantKey, perr.Key())
		})
	}
}

func TestValidatePasswordMinLengthCountsRunes(t *testing.T) {
	err := validatePassword(config.PasswordPolicyConfig{MinLength: 4}, "密码安全", "")
	assert.NoError(t, err)

	err = validatePassword(config.PasswordPolicyConfig{MinLength: 5}, "密码安全", "")
	perr, ok := err.(passwordPolicyError)
	require.True(t, ok)
	assert.Equal(t, []interface{}{5}, perr.Args())
}
