// Package credential wraps bcrypt for notebook password storage. The produced
// credential string is self-describing (algorithm, cost and salt are embedded),
// so verification needs nothing beyond the string itself.
package credential

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = bcrypt.DefaultCost

// Hash creates a credential for password using the default cost.
func Hash(password string) (string, error) {
	return HashWithCost(password, DefaultCost)
}

// HashWithCost creates a credential with an explicit cost factor. An
// out-of-range cost falls back to DefaultCost rather than failing: callers
// pass costs through from configuration and a typo should not weaken or brick
// hashing.
func HashWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored credential. Credentials
// with an unrecognized algorithm identifier never verify. bcrypt's comparison
// is constant time, so this does not leak where a mismatch occurs.
func Verify(password, credential string) bool {
	if !strings.HasPrefix(credential, "$2") {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(password)) == nil
}
