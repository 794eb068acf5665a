package tokenmap

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

// Letters only, so every token is a valid CSS identifier.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultSalt seeds the hashids permutation when none is configured
const DefaultSalt = "munch"

// Encoder turns a counter value into a token. It must be a pure function
// of n and injective over non-negative n.
type Encoder interface {
	Encode(n int) string
}

// EncoderFunc adapts a function to the Encoder interface
type EncoderFunc func(n int) string

func (f EncoderFunc) Encode(n int) string {
	return f(n)
}

// Hashids encodes counters with the hashids algorithm
type Hashids struct {
	h *hashids.HashID
}

// NewHashids creates a hashids encoder. minLength pads short tokens and
// may be zero.
func NewHashids(salt string, minLength int) (*Hashids, error) {
	if minLength < 0 {
		return nil, fmt.Errorf("invalid min length %d", minLength)
	}
	if salt == "" {
		salt = DefaultSalt
	}

	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	data.Alphabet = tokenAlphabet

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to create token encoder: %w", err)
	}
	return &Hashids{h: h}, nil
}

// Encode returns the token for n
func (e *Hashids) Encode(n int) string {
	// hashids only rejects negative input
	token, _ := e.h.Encode([]int{n})
	return token
}
