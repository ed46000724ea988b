package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGOTPGenerator_RandomCode(t *testing.T) {
	generator := NewGOTPGenerator()

	for i := 0; i < 100; i++ {
		code := generator.RandomCode(6)
		assert.Len(t, code, 6)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}

func TestGOTPGenerator_CodesVary(t *testing.T) {
	generator := NewGOTPGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[generator.RandomCode(6)] = true
	}

	// fresh secrets each draw, collisions across 50 draws should be rare
	assert.Greater(t, len(seen), 40)
}
