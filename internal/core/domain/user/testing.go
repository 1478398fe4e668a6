package user

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakePasscodeGenerator struct {
	Passcode RecoveryToken
}

func NewFakePasscodeGenerator(passcode string) *FakePasscodeGenerator {
	return &FakePasscodeGenerator{Passcode: RecoveryToken(passcode)}
}

func (g *FakePasscodeGenerator) GeneratePasscode() RecoveryToken {
	return g.Passcode
}

type SentRecoveryInstructions struct {
	Subject string
	User    User
}

type FakeRecoveryInstructionsSender struct {
	Sent        []SentRecoveryInstructions
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeRecoveryInstructionsSender() *FakeRecoveryInstructionsSender {
	return &FakeRecoveryInstructionsSender{}
}

func (s *FakeRecoveryInstructionsSender) SendRecoveryInstructions(ctx context.Context, subject string, u User) error {
	if s.ReturnError {
		return fmt.Errorf("could not send recovery instructions to user %d", u.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, SentRecoveryInstructions{Subject: subject, User: u})
	return nil
}

func (s *FakeRecoveryInstructionsSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeRecoveryInstructionsSender) LastSent() SentRecoveryInstructions {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

type FakeRepository struct {
	Users            []User
	FindReturnsError bool
	SaveReturnsError bool
	SaveCount        int
	lock             sync.Mutex
}

func NewFakeRepository(users ...User) *FakeRepository {
	r := &FakeRepository{Users: make([]User, 0, 10)}
	r.Users = append(r.Users, users...)
	return r
}

func (r *FakeRepository) FindOne(ctx context.Context, criteria Criteria) (u User, err error) {
	if r.FindReturnsError {
		return u, fmt.Errorf("could not find user %v", criteria)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if criteria.Matches(u) {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeRepository) GetByRecoveryToken(ctx context.Context, token RecoveryToken) (u User, err error) {
	if r.FindReturnsError {
		return u, fmt.Errorf("could not get user by recovery token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.RecoveryToken.IsPresent && u.RecoveryToken.Value == token {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeRepository) Save(ctx context.Context, u User) error {
	if r.SaveReturnsError {
		return fmt.Errorf("could not save user %d", u.ID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Users {
		if r.Users[ix].ID == u.ID {
			r.Users[ix] = u
			r.SaveCount++
			return nil
		}
	}
	return ErrUserDoesNotExist
}

func (r *FakeRepository) GetByID(id ID) User {
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u
		}
	}
	panic(fmt.Sprintf("user %d does not exist", id))
}
