package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// AccountNumberLength is the fixed digit count of generated account numbers.
const AccountNumberLength = 8

var accountNumberPattern = regexp.MustCompile(`^[0-9]{8}$`)

// GenerateAccountNumber generates a cryptographically random fixed-length
// numeric account number. Collision checking against existing accounts is the
// caller's responsibility.
func GenerateAccountNumber() (string, error) {
	digits := make([]byte, AccountNumberLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// IsValidAccountNumber reports whether s has the shape of an account number.
func IsValidAccountNumber(s string) bool {
	return accountNumberPattern.MatchString(s)
}
