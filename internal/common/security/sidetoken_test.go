package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSideToken(t *testing.T) {
	const count = 100
	tokens := make(map[string]bool, count)

	for range count {
		tok, err := NewSideToken()
		require.NoError(t, err)
		require.Regexp(t, `^[0-9a-f]{64}$`, tok)
		require.NotContains(t, tokens, tok, "duplicate side token generated")
		tokens[tok] = true
	}
}
