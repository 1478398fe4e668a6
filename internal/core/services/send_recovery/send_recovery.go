package sendrecovery

import (
	"context"
	"errors"
	c "recoverable/internal/core/domain/common"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/logging"
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
	log            logging.Logger
	userRepository user.Repository
	sender         user.RecoveryInstructionsSender
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.Repository,
	sender user.RecoveryInstructionsSender,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		sender:         sender,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u := input.User
	if u.IsRecovered() {
		s.log.Info(
			ctx,
			"User has already been recovered, skip sending recovery instructions.",
			logging.Entry("userID", u.ID),
		)
		return Result{User: u}, nil
	}

	err = s.sender.SendRecoveryInstructions(ctx, user.RecoverySubject, u)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not send recovery instructions.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	u.RecoverySentAt = c.Some(s.now())
	err = s.userRepository.Save(ctx, u)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not save user after sending recovery instructions.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Recovery instructions have been sent to the user.",
		logging.Entry("userID", u.ID),
		logging.Entry("sentAt", u.RecoverySentAt.Value),
	)
	return Result{User: u}, nil
}
