package utils

import "golang.org/x/crypto/bcrypt"

// BcryptCost keeps a single hash well above 100ms on current server hardware
const BcryptCost = 12

// HashPassword returns the bcrypt digest of password at the given cost.
// Tests pass bcrypt.MinCost; the server always uses BcryptCost.
func HashPassword(password string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// ComparePassword reports whether password matches digest. A malformed
// digest counts as a mismatch.
func ComparePassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
