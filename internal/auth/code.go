package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	CodeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator issues short human-typable codes for verification and reset.
type CodeGenerator struct {
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator builds a generator whose codes live for ttl.
func NewCodeGenerator(ttl time.Duration) *CodeGenerator {
	return &CodeGenerator{ttl: ttl, now: time.Now}
}

// Generate returns a new code and the instant it stops being accepted.
func (g *CodeGenerator) Generate() (string, time.Time, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("generating code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), g.now().Add(g.ttl), nil
}
