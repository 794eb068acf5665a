package tokenmap

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cssIdent = regexp.MustCompile(`^[a-zA-Z][a-zA-Z]*$`)

func TestHashidsUnique(t *testing.T) {
	enc, err := NewHashids(DefaultSalt, 0)
	require.NoError(t, err)

	seen := make(map[string]int)
	for n := 0; n < 5000; n++ {
		tok := enc.Encode(n)
		if prev, ok := seen[tok]; ok {
			t.Fatalf("Encode(%d) = %q, already issued for %d", n, tok, prev)
		}
		seen[tok] = n
		if !cssIdent.MatchString(tok) {
			t.Fatalf("Encode(%d) = %q is not a letters-only identifier", n, tok)
		}
	}
}

func TestHashidsDeterministic(t *testing.T) {
	a, err := NewHashids("Munch", 0)
	require.NoError(t, err)
	b, err := NewHashids("Munch", 0)
	require.NoError(t, err)

	for n := 0; n < 100; n++ {
		assert.Equal(t, a.Encode(n), b.Encode(n))
	}
}

func TestHashidsShort(t *testing.T) {
	enc, err := NewHashids(DefaultSalt, 0)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(enc.Encode(0)), 2)
	assert.LessOrEqual(t, len(enc.Encode(1000)), 3)
}

func TestHashidsMinLength(t *testing.T) {
	enc, err := NewHashids(DefaultSalt, 6)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(enc.Encode(3)), 6)

	_, err = NewHashids(DefaultSalt, -1)
	assert.Error(t, err)
}

func TestHashidsSaltChangesTokens(t *testing.T) {
	a, err := NewHashids("one", 0)
	require.NoError(t, err)
	b, err := NewHashids("two", 0)
	require.NoError(t, err)

	differ := false
	for n := 0; n < 20; n++ {
		if a.Encode(n) != b.Encode(n) {
			differ = true
		}
	}
	assert.True(t, differ)
}
