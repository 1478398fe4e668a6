package user

import "context"

const RecoverySubject = "Password recovery"

const PasscodeLength = 6

type TokenType string

const (
	TokenTypeEncrypted TokenType = "token"
	TokenTypePasscode  TokenType = "passcode"
)

// ParseTokenType maps any value other than "passcode" to the encrypted token type.
func ParseTokenType(raw string) TokenType {
	if TokenType(raw) == TokenTypePasscode {
		return TokenTypePasscode
	}
	return TokenTypeEncrypted
}

type RecoveryOptions struct {
	TokenLifeSpanDays int
	TokenType         TokenType
}

func (o RecoveryOptions) IsPasscodeMode() bool {
	return o.TokenType == TokenTypePasscode
}

type PasscodeGenerator interface {
	GeneratePasscode() RecoveryToken
}

type RecoveryInstructionsSender interface {
	SendRecoveryInstructions(ctx context.Context, subject string, u User) error
}
