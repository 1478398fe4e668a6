package passwordhasher

import (
	"recoverable/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt peppers passwords with the application secret before hashing.
type Bcrypt struct {
	secret string
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{secret: secret, cost: cost}
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (hash user.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword(h.pepper(password), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), h.pepper(password)) == nil
}

func (h *Bcrypt) pepper(password user.RawPassword) []byte {
	return []byte(string(password) + h.secret)
}
