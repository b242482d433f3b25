package hashing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leadtime/shared/hashing"
)

func TestIdentifier(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, hashing.Identifier("203.0.113.7"), hashing.Identifier("203.0.113.7"))
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		reference := hashing.Identifier("2001:db8::ab")

		assert.Equal(t, reference, hashing.Identifier(" 2001:DB8::AB "))
	})

	t.Run("distinct identifiers hash apart", func(t *testing.T) {
		assert.NotEqual(t, hashing.Identifier("203.0.113.7"), hashing.Identifier("203.0.113.8"))
	})

	t.Run("never echoes the raw identifier", func(t *testing.T) {
		digest := hashing.Identifier("203.0.113.7")

		assert.Len(t, digest, 64)
		assert.NotContains(t, digest, "203.0.113.7")
	})
}
