package generaterecoverytoken

import (
	"context"
	c "recoverable/internal/core/domain/common"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/recovery"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/core/services"
	"time"
)

type Input struct {
	User user.User
}

type Result struct {
	User user.User
}

type service struct {
	log               logging.Logger
	options           user.RecoveryOptions
	tokenizerFactory  recovery.TokenizerFactory
	passcodeGenerator user.PasscodeGenerator
	dateUtil          recovery.DateUtil
	now               func() time.Time
}

func New(
	log logging.Logger,
	options user.RecoveryOptions,
	tokenizerFactory recovery.TokenizerFactory,
	passcodeGenerator user.PasscodeGenerator,
	dateUtil recovery.DateUtil,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if tokenizerFactory == nil {
		panic(e.NewNilArgumentError("tokenizerFactory"))
	}
	if passcodeGenerator == nil {
		panic(e.NewNilArgumentError("passcodeGenerator"))
	}
	if dateUtil == nil {
		panic(e.NewNilArgumentError("dateUtil"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		options:           options,
		tokenizerFactory:  tokenizerFactory,
		passcodeGenerator: passcodeGenerator,
		dateUtil:          dateUtil,
		now:               now,
	}
}

// Run does not persist the user, the caller is responsible for saving it.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u := input.User
	if u.Email == "" {
		s.log.Info(
			ctx,
			"Could not generate recovery token, user has no email.",
			logging.Entry("userID", u.ID),
		)
		return result, user.ErrRecoveryDetailsInvalid
	}

	// The stored expiry must render to the same seed after a database round trip.
	expiry := s.dateUtil.AddDays(s.now(), s.options.TokenLifeSpanDays).Truncate(time.Millisecond)

	var token user.RecoveryToken
	if s.options.IsPasscodeMode() {
		token = s.passcodeGenerator.GeneratePasscode()
	} else {
		tokenizer := s.tokenizerFactory.New(recovery.Seed(expiry))
		token = user.RecoveryToken(tokenizer.Encrypt(string(u.Email)))
	}

	u.RecoveryToken = c.Some(user.NewRecoveryToken(string(token)))
	u.RecoveryTokenExpiryAt = c.Some(expiry)
	u.RecoveredAt = c.None[time.Time]()

	s.log.Debug(
		ctx,
		"Recovery token has been generated.",
		logging.Entry("userID", u.ID),
		logging.Entry("tokenType", s.options.TokenType),
		logging.Entry("expiryAt", expiry),
	)
	return Result{User: u}, nil
}
