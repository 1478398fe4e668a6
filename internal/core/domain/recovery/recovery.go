package recovery

import (
	"strconv"
	"time"
)

// Tokenizer produces tokens bound to a subject. A tokenizer is keyed by the
// seed it was created from, so only a tokenizer built from the same seed can
// match a token it did not produce itself.
type Tokenizer interface {
	Encrypt(subject string) string
	Match(token string, subject string) bool
}

type TokenizerFactory interface {
	New(seed string) Tokenizer
}

type DateUtil interface {
	AddDays(t time.Time, days int) time.Time
	IsAfter(a time.Time, b time.Time) bool
}

// Seed renders a token expiry as epoch milliseconds.
func Seed(expiry time.Time) string {
	return strconv.FormatInt(expiry.UnixMilli(), 10)
}
