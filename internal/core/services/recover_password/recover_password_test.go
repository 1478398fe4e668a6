package recoverpassword

import (
	"context"
	c "recoverable/internal/core/domain/common"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/recovery"
	"recoverable/internal/core/domain/user"
	generaterecoverytoken "recoverable/internal/core/services/generate_recovery_token"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	USER_ID      = 3
	EMAIL        = "a@x.com"
	NEW_PASSWORD = "NewPass1"
	OLD_HASH     = "old-hash"
	PASSCODE     = "482913"
)

var Now time.Time = time.Date(2022, 2, 2, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger           *logging.FakeLogger
	Repository       *user.FakeRepository
	TokenizerFactory *recovery.FakeTokenizerFactory
	PasswordHasher   *user.FakePasswordHasher
	DateUtil         *recovery.FakeDateUtil
	CurrentTime      time.Time
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.Repository = user.NewFakeRepository()
	s.TokenizerFactory = recovery.NewFakeTokenizerFactory()
	s.PasswordHasher = user.NewFakePasswordHasher()
	s.DateUtil = recovery.NewFakeDateUtil()
	s.CurrentTime = Now
}

func TestRecoverPasswordService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) now() time.Time {
	return s.CurrentTime
}

func (s *testSuite) options(tokenType user.TokenType) user.RecoveryOptions {
	return user.RecoveryOptions{TokenLifeSpanDays: 1, TokenType: tokenType}
}

func (s *testSuite) recoverService(tokenType user.TokenType) func(token string, password string) (Result, error) {
	service := New(
		s.Logger,
		s.Repository,
		s.TokenizerFactory,
		s.PasswordHasher,
		s.DateUtil,
		s.options(tokenType),
		s.now,
	)
	return func(token string, password string) (Result, error) {
		return service.Run(context.Background(), Input{
			Token:       user.RecoveryToken(token),
			NewPassword: user.RawPassword(password),
		})
	}
}

// issueToken stores a user with a freshly generated recovery token.
func (s *testSuite) issueToken(tokenType user.TokenType) user.User {
	generate := generaterecoverytoken.New(
		s.Logger,
		s.options(tokenType),
		s.TokenizerFactory,
		user.NewFakePasscodeGenerator(PASSCODE),
		s.DateUtil,
		s.now,
	)
	result, err := generate.Run(context.Background(), generaterecoverytoken.Input{User: newUser()})
	s.Require().Nil(err)
	s.Repository.Users = append(s.Repository.Users, result.User)
	return result.User
}

func (s *testSuite) TestRecoverySucceeds() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)

	// Exercise
	result, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(c.Some(Now), result.User.RecoveredAt)

	stored := s.Repository.GetByID(USER_ID)
	assert.Equal(1, s.Repository.SaveCount)
	assert.Equal(c.Some(Now), stored.RecoveredAt)
	assert.NotEqual(user.PasswordHash(NEW_PASSWORD), stored.PasswordHash.Value)
	assert.True(s.PasswordHasher.ValidatePassword(NEW_PASSWORD, stored.PasswordHash.Value))
	assert.Equal(1, s.TokenizerFactory.MatchCallCount())
}

func (s *testSuite) TestTokenIsCaseAndSpaceInsensitive() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)
	token := "  " + strings.ToUpper(string(issued.RecoveryToken.Value)) + "\n"

	// Exercise
	_, err := recoverPassword(token, NEW_PASSWORD)

	// Verify
	s.Require().Nil(err)
}

func (s *testSuite) TestTokenExpiredAfterLifeSpan() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)

	// Exercise
	_, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)
	s.Require().Nil(err)

	s.CurrentTime = issued.RecoveryTokenExpiryAt.Value.Add(time.Millisecond)
	_, err = recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	assert := s.Require()
	assert.ErrorIs(err, user.ErrRecoveryTokenExpired)
	assert.Equal("recovery token expired", err.Error())
	assert.Equal(1, s.Repository.SaveCount)
}

func (s *testSuite) TestTokenValidAtExpiryInstant() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)
	s.CurrentTime = issued.RecoveryTokenExpiryAt.Value

	// Exercise
	_, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	s.Require().Nil(err)
}

func (s *testSuite) TestExpiredTokenDoesNotChangePassword() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)
	s.CurrentTime = Now.AddDate(0, 0, 2)

	// Exercise
	_, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	assert := s.Require()
	assert.ErrorIs(err, user.ErrRecoveryTokenExpired)
	stored := s.Repository.GetByID(USER_ID)
	assert.Equal(c.Some(user.PasswordHash(OLD_HASH)), stored.PasswordHash)
	assert.False(stored.RecoveredAt.IsPresent)
	assert.Equal(0, s.Repository.SaveCount)
	assert.Equal(0, s.TokenizerFactory.MatchCallCount())
}

func (s *testSuite) TestUnknownToken() {
	// Setup
	s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)

	for _, token := range []string{"unknown", "", "   ", ".*"} {
		// Exercise
		_, err := recoverPassword(token, NEW_PASSWORD)

		// Verify
		assert := s.Require()
		assert.ErrorIs(err, user.ErrInvalidRecoveryToken)
		assert.Equal("invalid recovery token", err.Error())
	}
	s.Require().Equal(0, s.Repository.SaveCount)
}

func (s *testSuite) TestTokenDoesNotMatchExpirySeed() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	s.Repository.Users[0].RecoveryTokenExpiryAt = c.Some(issued.RecoveryTokenExpiryAt.Value.Add(time.Hour))
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)

	// Exercise
	_, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	assert := s.Require()
	assert.ErrorIs(err, user.ErrInvalidRecoveryToken)
	assert.Equal(1, s.TokenizerFactory.MatchCallCount())
	assert.Equal(0, s.Repository.SaveCount)
}

func (s *testSuite) TestTokenCannotBeUsedTwice() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)
	_, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)
	s.Require().Nil(err)

	// Exercise
	_, err = recoverPassword(string(issued.RecoveryToken.Value), "AnotherPass2")

	// Verify
	assert := s.Require()
	assert.ErrorIs(err, user.ErrInvalidRecoveryToken)
	assert.Equal(1, s.Repository.SaveCount)
	stored := s.Repository.GetByID(USER_ID)
	assert.True(s.PasswordHasher.ValidatePassword(NEW_PASSWORD, stored.PasswordHash.Value))
}

func (s *testSuite) TestPasscodeSkipsTokenizer() {
	// Setup
	issued := s.issueToken(user.TokenTypePasscode)
	recoverPassword := s.recoverService(user.TokenTypePasscode)

	// Exercise
	result, err := recoverPassword(PASSCODE, NEW_PASSWORD)

	// Verify
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(user.RecoveryToken(PASSCODE), issued.RecoveryToken.Value)
	assert.True(result.User.RecoveredAt.IsPresent)
	assert.Equal(0, s.TokenizerFactory.MatchCallCount())
	assert.Empty(s.TokenizerFactory.Seeds)
}

func (s *testSuite) TestExpiredPasscode() {
	// Setup
	s.issueToken(user.TokenTypePasscode)
	recoverPassword := s.recoverService(user.TokenTypePasscode)
	s.CurrentTime = Now.AddDate(0, 0, 1).Add(time.Second)

	// Exercise
	_, err := recoverPassword(PASSCODE, NEW_PASSWORD)

	// Verify
	s.Require().ErrorIs(err, user.ErrRecoveryTokenExpired)
}

func (s *testSuite) TestRepositoryFailures() {
	// Setup
	issued := s.issueToken(user.TokenTypeEncrypted)
	recoverPassword := s.recoverService(user.TokenTypeEncrypted)
	s.Repository.FindReturnsError = true

	// Exercise
	_, err := recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	assert := s.Require()
	assert.NotNil(err)
	assert.NotErrorIs(err, user.ErrInvalidRecoveryToken)

	// Setup
	s.Repository.FindReturnsError = false
	s.Repository.SaveReturnsError = true

	// Exercise
	_, err = recoverPassword(string(issued.RecoveryToken.Value), NEW_PASSWORD)

	// Verify
	assert.NotNil(err)
	assert.False(s.Repository.GetByID(USER_ID).RecoveredAt.IsPresent)
	assert.Equal(2, s.Logger.CountByLevel(logging.ERROR))
}

func newUser() user.User {
	return user.User{
		ID:           USER_ID,
		Email:        c.NewEmail(EMAIL),
		PasswordHash: c.Some(user.PasswordHash(OLD_HASH)),
		CreatedAt:    Now.AddDate(0, -1, 0),
	}
}
