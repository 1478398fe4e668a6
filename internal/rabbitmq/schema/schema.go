package schema

import (
	"encoding/json"
	"errors"
	c "recoverable/internal/core/domain/common"
	"recoverable/internal/core/domain/user"
	"time"
)

// RecoveryInstructions is published when a user requests recovery and is
// delivered to the user by the mailer.
type RecoveryInstructions struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewRecoveryInstructions(
	subject string,
	u user.User,
	tokenType user.TokenType,
) (RecoveryInstructions, error) {
	if !u.RecoveryToken.IsPresent || !u.RecoveryTokenExpiryAt.IsPresent {
		return RecoveryInstructions{}, errors.New("user recovery token is not defined")
	}
	return RecoveryInstructions{
		UserID:    int64(u.ID),
		Email:     string(u.Email),
		Subject:   subject,
		Token:     string(u.RecoveryToken.Value),
		TokenType: string(tokenType),
		ExpiresAt: u.RecoveryTokenExpiryAt.Value,
	}, nil
}

func (r *RecoveryInstructions) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func (r *RecoveryInstructions) Unmarshal(data []byte) error {
	return json.Unmarshal(data, r)
}

// User restores the part of the user the instructions were built from.
func (r *RecoveryInstructions) User() user.User {
	return user.User{
		ID:                    user.ID(r.UserID),
		Email:                 c.NewEmail(r.Email),
		RecoveryToken:         c.Some(user.NewRecoveryToken(r.Token)),
		RecoveryTokenExpiryAt: c.Some(r.ExpiresAt.UTC()),
	}
}

// Type is the token type the API issued, messages without one carry an
// encrypted token.
func (r *RecoveryInstructions) Type() user.TokenType {
	return user.ParseTokenType(r.TokenType)
}
