package requestrecover

import (
	"context"
	"errors"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/logging"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/core/services"
	generaterecoverytoken "recoverable/internal/core/services/generate_recovery_token"
	sendrecovery "recoverable/internal/core/services/send_recovery"
)

type Input struct {
	Criteria user.Criteria
}

type Result struct {
	User user.User
}

type service struct {
	log                   logging.Logger
	userRepository        user.Repository
	generateRecoveryToken services.Service[generaterecoverytoken.Input, generaterecoverytoken.Result]
	sendRecovery          services.Service[sendrecovery.Input, sendrecovery.Result]
}

func New(
	log logging.Logger,
	userRepository user.Repository,
	generateRecoveryToken services.Service[generaterecoverytoken.Input, generaterecoverytoken.Result],
	sendRecovery services.Service[sendrecovery.Input, sendrecovery.Result],
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if generateRecoveryToken == nil {
		panic(e.NewNilArgumentError("generateRecoveryToken"))
	}
	if sendRecovery == nil {
		panic(e.NewNilArgumentError("sendRecovery"))
	}
	return &service{
		log:                   log,
		userRepository:        userRepository,
		generateRecoveryToken: generateRecoveryToken,
		sendRecovery:          sendRecovery,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Criteria.IsEmpty() {
		s.log.Info(ctx, "Recovery requested with empty criteria.")
		return result, user.ErrRecoveryDetailsInvalid
	}

	u, err := s.userRepository.FindOne(ctx, input.Criteria)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Recovery requested for unknown user.",
			logging.Entry("criteria", input.Criteria),
		)
		return result, user.ErrRecoveryDetailsInvalid
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("criteria", input.Criteria))
		return result, err
	}

	generated, err := s.generateRecoveryToken.Run(ctx, generaterecoverytoken.Input{User: u})
	if err != nil {
		return result, err
	}

	sent, err := s.sendRecovery.Run(ctx, sendrecovery.Input{User: generated.User})
	if err != nil {
		return result, err
	}

	return Result{User: sent.User}, nil
}
