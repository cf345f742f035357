package service

import (
	"crypto/rand"
	"math/big"
)

const (
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralCodeLength   = 8

	oneTimePasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"
	oneTimePasswordLength   = 16
)

// NewReferralCode samples an 8-character code uniformly from [A-Z0-9].
// Uniqueness is not checked here; the profile insert retries on collision.
func NewReferralCode() (string, error) {
	return randomString(referralCodeAlphabet, referralCodeLength)
}

// NewOneTimePassword generates the initial password for accounts
// provisioned by admin access grants and bulk imports.
func NewOneTimePassword() (string, error) {
	return randomString(oneTimePasswordAlphabet, oneTimePasswordLength)
}

func randomString(alphabet string, length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}
