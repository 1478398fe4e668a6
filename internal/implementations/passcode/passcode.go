package passcode

import (
	"crypto/rand"
	"math/big"
	"recoverable/internal/core/domain/user"
)

var digits = []rune("0123456789")

type Generator struct {
	length int
}

func NewGenerator() *Generator {
	return &Generator{length: user.PasscodeLength}
}

func (g *Generator) GeneratePasscode() user.RecoveryToken {
	b := make([]rune, g.length)
	max := big.NewInt(int64(len(digits)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("Could not read random digits.")
		}
		b[i] = digits[n.Int64()]
	}
	return user.RecoveryToken(b)
}
