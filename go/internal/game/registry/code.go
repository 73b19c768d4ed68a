package registry

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

const (
	// CodeLength is the fixed length of a session code.
	CodeLength = 6

	// codeAlphabet excludes visually confusable characters (0/O, 1/I/L).
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// generateCode creates a random session code. Codes come from crypto/rand so
// they are not guessable from one another; math/rand is only a fallback if
// the system source fails.
func generateCode() string {
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
			continue
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

// ValidCode reports whether s is a well-formed session code.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(codeAlphabet); j++ {
			if s[i] == codeAlphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
