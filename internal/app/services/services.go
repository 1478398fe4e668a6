package services

import (
	"recoverable/internal/app/deps"
	"recoverable/internal/core/services"
	generaterecoverytoken "recoverable/internal/core/services/generate_recovery_token"
	recoverpassword "recoverable/internal/core/services/recover_password"
	requestrecover "recoverable/internal/core/services/request_recover"
	sendrecovery "recoverable/internal/core/services/send_recovery"
)

type Services struct {
	GenerateRecoveryToken services.Service[generaterecoverytoken.Input, generaterecoverytoken.Result]
	SendRecovery          services.Service[sendrecovery.Input, sendrecovery.Result]
	RequestRecover        services.Service[requestrecover.Input, requestrecover.Result]
	RecoverPassword       services.Service[recoverpassword.Input, recoverpassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.GenerateRecoveryToken = generaterecoverytoken.New(
		deps.Logger,
		deps.RecoveryOptions,
		deps.TokenizerFactory,
		deps.PasscodeGenerator,
		deps.DateUtil,
		deps.Now,
	)
	s.SendRecovery = sendrecovery.New(
		deps.Logger,
		deps.UserRepository,
		deps.RecoveryInstructionsSender,
		deps.Now,
	)
	s.RequestRecover = requestrecover.New(
		deps.Logger,
		deps.UserRepository,
		s.GenerateRecoveryToken,
		s.SendRecovery,
	)
	s.RecoverPassword = recoverpassword.New(
		deps.Logger,
		deps.UserRepository,
		deps.TokenizerFactory,
		deps.PasswordHasher,
		deps.DateUtil,
		deps.RecoveryOptions,
		deps.Now,
	)

	return s
}
