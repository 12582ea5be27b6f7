package security

import (
	"crypto/rand"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the adaptive work factor for stored password hashes.
const BcryptCost = 12

// HashPassword returns a salted bcrypt hash; two calls on the same input differ.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash reports whether password matches hash. Malformed hashes never match.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// DummyPasswordHash is a cost-BcryptCost hash of a random secret nobody knows.
// Comparing against it costs the same as checking a real account.
func DummyPasswordHash() string {
	dummyHashOnce.Do(func() {
		secret := make([]byte, 32)
		_, _ = rand.Read(secret)
		hashed, err := bcrypt.GenerateFromPassword(secret, BcryptCost)
		if err != nil {
			panic("security: cannot build dummy password hash: " + err.Error())
		}
		dummyHash = string(hashed)
	})
	return dummyHash
}
