// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func GenerateRandomString(length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tokenCharset))))
		if err != nil {
			return "", err
		}
		b[i] = tokenCharset[n.Int64()]
	}

	return string(b), nil
}

// GenerateVerificationToken produces the 20-character key mailed out on
// registration.
func GenerateVerificationToken() (string, error) {
	return GenerateRandomString(20)
}

// GeneratePassword produces the 12-character replacement password used by
// the reset flow.
func GeneratePassword() (string, error) {
	return GenerateRandomString(12)
}
