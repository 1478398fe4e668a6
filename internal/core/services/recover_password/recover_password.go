package recoverpassword

import (
	"context"
	"errors"
	c "recoverable/internal/core/domain/common"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/recovery"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/core/services"
	"time"
)

type Input struct {
	Token       user.RecoveryToken
	NewPassword user.RawPassword
}

type Result struct {
	User user.User
}

type service struct {
	log              logging.Logger
	userRepository   user.Repository
	tokenizerFactory recovery.TokenizerFactory
	passwordHasher   user.PasswordHasher
	dateUtil         recovery.DateUtil
	options          user.RecoveryOptions
	now              func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.Repository,
	tokenizerFactory recovery.TokenizerFactory,
	passwordHasher user.PasswordHasher,
	dateUtil recovery.DateUtil,
	options user.RecoveryOptions,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if tokenizerFactory == nil {
		panic(e.NewNilArgumentError("tokenizerFactory"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if dateUtil == nil {
		panic(e.NewNilArgumentError("dateUtil"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:              log,
		userRepository:   userRepository,
		tokenizerFactory: tokenizerFactory,
		passwordHasher:   passwordHasher,
		dateUtil:         dateUtil,
		options:          options,
		now:              now,
	}
}

// Run stops at the first failing check, the password is replaced only
// after the token has been located, found unexpired and verified.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	token := user.NewRecoveryToken(string(input.Token))
	if token == "" {
		return result, user.ErrInvalidRecoveryToken
	}

	u, err := s.userRepository.GetByRecoveryToken(ctx, token)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Recovery token does not exist.")
		return result, user.ErrInvalidRecoveryToken
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	if !u.RecoveryTokenExpiryAt.IsPresent {
		s.log.Warning(ctx, "Recovery token has no expiry.", logging.Entry("userID", u.ID))
		return result, user.ErrInvalidRecoveryToken
	}
	now := s.now()
	if s.dateUtil.IsAfter(now, u.RecoveryTokenExpiryAt.Value) {
		s.log.Info(
			ctx,
			"Recovery token has expired.",
			logging.Entry("userID", u.ID),
			logging.Entry("expiryAt", u.RecoveryTokenExpiryAt.Value),
		)
		return result, user.ErrRecoveryTokenExpired
	}

	// Passcodes are random, so the storage lookup is the only check
	// available for them.
	if !s.options.IsPasscodeMode() {
		tokenizer := s.tokenizerFactory.New(recovery.Seed(u.RecoveryTokenExpiryAt.Value))
		if !tokenizer.Match(string(token), string(u.Email)) {
			s.log.Warning(ctx, "Recovery token does not match.", logging.Entry("userID", u.ID))
			return result, user.ErrInvalidRecoveryToken
		}
	}

	if u.IsRecovered() {
		s.log.Info(ctx, "Recovery token has already been used.", logging.Entry("userID", u.ID))
		return result, user.ErrInvalidRecoveryToken
	}

	hash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}
	u.PasswordHash = c.Some(hash)
	u.RecoveredAt = c.Some(now)

	err = s.userRepository.Save(ctx, u)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(ctx, "User has been recovered.", logging.Entry("userID", u.ID))
	return Result{User: u}, nil
}
