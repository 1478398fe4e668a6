package tokenizer

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"
	"recoverable/internal/core/domain/recovery"
	"strings"
)

type HMACFactory struct {
	secretKey []byte
}

func NewHMACFactory(secretKey string) *HMACFactory {
	return &HMACFactory{secretKey: []byte(secretKey)}
}

func (f *HMACFactory) New(seed string) recovery.Tokenizer {
	hasher := hmac.New(sha256.New, f.secretKey)
	io.WriteString(hasher, seed)
	return &HMAC{key: hasher.Sum(nil)}
}

// HMAC signs a subject with a key derived from the application secret and the seed.
type HMAC struct {
	key []byte
}

func (h *HMAC) Encrypt(subject string) string {
	hasher := hmac.New(sha256.New, h.key)
	io.WriteString(hasher, subject)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (h *HMAC) Match(token string, subject string) bool {
	expected := h.Encrypt(subject)
	actual := strings.ToLower(strings.TrimSpace(token))
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}
