package user

import (
	"context"
	c "recoverable/internal/core/domain/common"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/db"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	EMAIL          = "a@x.com"
	PASSWORD_HASH  = "test-password-hash"
	RECOVERY_TOKEN = "0a1b2c3d"
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 123_000_000, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool(suite.T())
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCreateSuccess() {
	u := s.createUser(EMAIL)

	assert := s.Require()
	assert.NotZero(u.ID)
	assert.Equal(c.NewEmail(EMAIL), u.Email)
	assert.Equal(c.Some(user.PasswordHash(PASSWORD_HASH)), u.PasswordHash)
	assert.True(NOW.Equal(u.CreatedAt))
	assert.False(u.RecoveryToken.IsPresent)
	assert.False(u.RecoveryTokenExpiryAt.IsPresent)
	assert.False(u.RecoverySentAt.IsPresent)
	assert.False(u.RecoveredAt.IsPresent)
}

func (s *testSuite) TestEmailAlreadyExistsError() {
	s.createUser(EMAIL)

	_, err := s.repo.Create(context.Background(), user.CreateUserInput{
		Email:     c.NewEmail(EMAIL),
		CreatedAt: NOW,
	})

	s.Require().ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (s *testSuite) TestFindOne() {
	created := s.createUser(EMAIL)
	other := s.createUser("b@x.com")

	cases := []struct {
		id       string
		criteria user.Criteria
		expected user.ID
	}{
		{id: "email", criteria: user.Criteria{Email: c.Some(c.NewEmail(EMAIL))}, expected: created.ID},
		{id: "id", criteria: user.Criteria{ID: c.Some(other.ID)}, expected: other.ID},
		{
			id:       "both",
			criteria: user.Criteria{ID: c.Some(created.ID), Email: c.Some(c.NewEmail(EMAIL))},
			expected: created.ID,
		},
	}
	for _, testCase := range cases {
		s.Run(testCase.id, func() {
			u, err := s.repo.FindOne(context.Background(), testCase.criteria)

			assert := s.Require()
			assert.Nil(err)
			assert.Equal(testCase.expected, u.ID)
		})
	}
}

func (s *testSuite) TestFindOneReturnsErrorIfUserDoesNotExist() {
	created := s.createUser(EMAIL)

	cases := []user.Criteria{
		{Email: c.Some(c.NewEmail("b@x.com"))},
		{ID: c.Some(created.ID + 1)},
		{ID: c.Some(created.ID), Email: c.Some(c.NewEmail("b@x.com"))},
		{},
	}
	for _, criteria := range cases {
		_, err := s.repo.FindOne(context.Background(), criteria)
		s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	}
}

func (s *testSuite) TestSaveAndGetByRecoveryToken() {
	u := s.createUser(EMAIL)
	u.RecoveryToken = c.Some(user.RecoveryToken(RECOVERY_TOKEN))
	u.RecoveryTokenExpiryAt = c.Some(NOW.AddDate(0, 0, 1))
	u.RecoverySentAt = c.Some(NOW)

	err := s.repo.Save(context.Background(), u)
	s.Require().Nil(err)

	found, err := s.repo.GetByRecoveryToken(context.Background(), RECOVERY_TOKEN)

	assert := s.Require()
	assert.Nil(err)
	assert.Equal(u.ID, found.ID)
	assert.Equal(u.RecoveryToken, found.RecoveryToken)
	assert.True(u.RecoveryTokenExpiryAt.Value.Equal(found.RecoveryTokenExpiryAt.Value))
	assert.Equal(
		u.RecoveryTokenExpiryAt.Value.UnixMilli(),
		found.RecoveryTokenExpiryAt.Value.UnixMilli(),
	)
	assert.True(u.RecoverySentAt.Value.Equal(found.RecoverySentAt.Value))
	assert.False(found.RecoveredAt.IsPresent)
}

func (s *testSuite) TestGetByRecoveryTokenUsesEquality() {
	u := s.createUser(EMAIL)
	u.RecoveryToken = c.Some(user.RecoveryToken(RECOVERY_TOKEN))
	u.RecoveryTokenExpiryAt = c.Some(NOW.AddDate(0, 0, 1))
	s.Require().Nil(s.repo.Save(context.Background(), u))

	for _, token := range []user.RecoveryToken{"", "0a1b", "%", ".*", RECOVERY_TOKEN + " "} {
		_, err := s.repo.GetByRecoveryToken(context.Background(), token)
		s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
	}
}

func (s *testSuite) TestSavePersistsRecovery() {
	u := s.createUser(EMAIL)
	u.PasswordHash = c.Some(user.PasswordHash("new-password-hash"))
	u.RecoveryToken = c.Some(user.RecoveryToken(RECOVERY_TOKEN))
	u.RecoveryTokenExpiryAt = c.Some(NOW.AddDate(0, 0, 1))
	u.RecoveredAt = c.Some(NOW)

	err := s.repo.Save(context.Background(), u)
	s.Require().Nil(err)

	found, err := s.repo.FindOne(context.Background(), user.Criteria{ID: c.Some(u.ID)})
	assert := s.Require()
	assert.Nil(err)
	assert.Equal(u.PasswordHash, found.PasswordHash)
	assert.True(found.IsRecovered())
	assert.True(NOW.Equal(found.RecoveredAt.Value))
}

func (s *testSuite) TestSaveReturnsErrorIfUserDoesNotExist() {
	u := s.createUser(EMAIL)
	u.ID += 1000

	err := s.repo.Save(context.Background(), u)

	s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestSaveRejectsTokenWithoutExpiry() {
	u := s.createUser(EMAIL)
	u.RecoveryToken = c.Some(user.RecoveryToken(RECOVERY_TOKEN))

	err := s.repo.Save(context.Background(), u)

	s.Require().NotNil(err)
	_, err = s.repo.GetByRecoveryToken(context.Background(), RECOVERY_TOKEN)
	s.Require().ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) createUser(email string) user.User {
	s.T().Helper()
	u, err := s.repo.Create(
		context.Background(),
		user.CreateUserInput{
			Email:        c.NewEmail(email),
			PasswordHash: c.Some(user.PasswordHash(PASSWORD_HASH)),
			CreatedAt:    NOW,
		},
	)
	if err != nil {
		s.FailNowf("could not create user", "err: %v", err)
	}
	return u
}
