// Package token generates short random tenant identifiers.
package token

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/starford/pinboard/internal/apperr"
)

// DefaultAlphabet is the 62-symbol alphanumeric charset.
const DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultMaxAttempts bounds uniqueness retries. At the default length a
// collision is astronomically unlikely, so hitting the cap means the
// existence check itself is broken and the generator fails loudly
// instead of spinning forever.
const DefaultMaxAttempts = 20

// ExistsFunc reports whether a candidate token is already in use.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Generator produces fixed-length tokens from a configurable alphabet.
type Generator struct {
	Alphabet    string
	Length      int
	MaxAttempts int
}

// New returns a Generator with the given length and default alphabet and retry cap.
func New(length int) *Generator {
	return &Generator{
		Alphabet:    DefaultAlphabet,
		Length:      length,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Generate draws Length characters uniformly from the alphabet using
// crypto/rand.
func (g *Generator) Generate() (string, error) {
	if g.Length <= 0 || g.Alphabet == "" {
		return "", fmt.Errorf("token: invalid generator config (length=%d, alphabet=%q)", g.Length, g.Alphabet)
	}
	buf := make([]byte, g.Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: read random: %w", err)
	}
	out := make([]byte, g.Length)
	for i, b := range buf {
		out[i] = g.Alphabet[int(b)%len(g.Alphabet)]
	}
	return string(out), nil
}

// EnsureUnique draws candidates until exists reports one unused, up to
// MaxAttempts. Exhausting the cap returns apperr.ErrTokenExhausted.
func (g *Generator) EnsureUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	for i := 0; i < attempts; i++ {
		candidate, err := g.Generate()
		if err != nil {
			return "", err
		}
		used, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("token: existence check: %w", err)
		}
		if !used {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", apperr.ErrTokenExhausted, attempts)
}
