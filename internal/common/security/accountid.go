package security

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pinnacle_metals/internal/common"
)

const (
	AccountIDPrefix      = "PM-"
	MaxAccountIDAttempts = 5
)

var accountIDPattern = regexp.MustCompile(`^PM-[0-9A-F]{10}$`)

// ErrAccountIDCollision tells WithUniqueAccountID that a candidate is taken.
var ErrAccountIDCollision = errors.New("account id already in use")

// GenerateAccountID returns a candidate business identifier, PM- followed by
// 10 uppercase hex characters. Uniqueness is the caller's job.
func GenerateAccountID() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes for account id: %w", err)
	}
	return AccountIDPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func IsAccountID(s string) bool {
	return accountIDPattern.MatchString(s)
}

// WithUniqueAccountID hands fresh candidates to use until one is accepted.
// use returns ErrAccountIDCollision to ask for another candidate; any other
// error stops the loop. After MaxAccountIDAttempts collisions the result wraps
// common.ErrResourceExhausted. A colliding candidate is never returned.
func WithUniqueAccountID(ctx context.Context, use func(ctx context.Context, candidate string) error) (string, error) {
	for attempt := 1; attempt <= MaxAccountIDAttempts; attempt++ {
		candidate, err := GenerateAccountID()
		if err != nil {
			return "", err
		}
		err = use(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, ErrAccountIDCollision) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free account id after %d attempts: %w", MaxAccountIDAttempts, common.ErrResourceExhausted)
}
