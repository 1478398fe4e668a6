package recovery

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type FakeTokenizerFactory struct {
	Seeds      []string
	MatchCalls int
	lock       sync.Mutex
}

func NewFakeTokenizerFactory() *FakeTokenizerFactory {
	return &FakeTokenizerFactory{}
}

func (f *FakeTokenizerFactory) New(seed string) Tokenizer {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Seeds = append(f.Seeds, seed)
	return &fakeTokenizer{seed: seed, factory: f}
}

func (f *FakeTokenizerFactory) MatchCallCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.MatchCalls
}

type fakeTokenizer struct {
	seed    string
	factory *FakeTokenizerFactory
}

func (t *fakeTokenizer) Encrypt(subject string) string {
	return strings.ToLower(fmt.Sprintf("tkn-%s-%s", t.seed, subject))
}

func (t *fakeTokenizer) Match(token string, subject string) bool {
	t.factory.lock.Lock()
	t.factory.MatchCalls++
	t.factory.lock.Unlock()
	return strings.ToLower(token) == t.Encrypt(subject)
}

type FakeDateUtil struct{}

func NewFakeDateUtil() *FakeDateUtil {
	return &FakeDateUtil{}
}

func (u *FakeDateUtil) AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func (u *FakeDateUtil) IsAfter(a time.Time, b time.Time) bool {
	return a.After(b)
}
