package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := NewReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, c := range code {
			assert.Contains(t, referralCodeAlphabet, string(c))
		}
		seen[code] = true
	}
	// 200 draws from a 36^8 space colliding would mean the sampler is broken.
	assert.Len(t, seen, 200)
}

func TestNewOneTimePassword(t *testing.T) {
	pw, err := NewOneTimePassword()
	require.NoError(t, err)
	assert.Len(t, pw, 16)
	for _, c := range pw {
		assert.Contains(t, oneTimePasswordAlphabet, string(c))
	}
	// Wider alphabet than referral codes: lowercase and symbols allowed.
	assert.True(t, strings.ContainsAny(oneTimePasswordAlphabet, "abc!@#"))
}
