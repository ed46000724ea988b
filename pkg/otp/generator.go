package otp

import "github.com/xlzd/gotp"

// Generator produces fixed-length numeric verification codes.
type Generator interface {
	RandomCode(length int) string
}

type GOTPGenerator struct{}

func NewGOTPGenerator() *GOTPGenerator {
	return &GOTPGenerator{}
}

// RandomCode draws a one-time numeric code from a TOTP over a fresh random
// secret, so consecutive codes are unrelated to each other.
func (g *GOTPGenerator) RandomCode(length int) string {
	return gotp.NewTOTP(gotp.RandomSecret(16), length, 30, nil).Now()
}
