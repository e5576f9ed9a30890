// Package token generates confirmation tokens for the subscription flow.
package token

import (
	"crypto/rand"
	"fmt"

	"github.com/ignite/newsletter/internal/domain"
)

// alphabet is the token character set. 62 symbols at 25 positions gives
// ~149 bits of entropy, far beyond any practical guessing budget.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of characters in a generated token.
const Length = 25

// Generator produces confirmation tokens from the OS randomness source.
type Generator struct{}

// NewGenerator creates a token generator.
func NewGenerator() *Generator { return &Generator{} }

// Generate returns a fresh token of Length uniformly random alphanumeric
// characters. Failure to read entropy is unrecoverable and panics.
func (g *Generator) Generate() domain.ConfirmationToken {
	// Rejection sampling keeps the distribution uniform: bytes >= 248
	// would bias the low alphabet indices under a plain modulo.
	const limit = 256 - 256%len(alphabet)

	out := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("token: reading randomness source: %v", err))
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return domain.ConfirmationToken(out)
}
