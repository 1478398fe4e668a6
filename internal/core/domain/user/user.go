package user

import (
	c "recoverable/internal/core/domain/common"
	e "recoverable/internal/core/domain/errors"
	"strings"
	"time"
)

type ID int64

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

// RecoveryToken is either an encrypted token or a numeric passcode.
// It is stored and compared in its normalized form.
type RecoveryToken string

func NewRecoveryToken(raw string) RecoveryToken {
	return RecoveryToken(strings.ToLower(strings.TrimSpace(raw)))
}

func (t RecoveryToken) String() string {
	return "***"
}

type User struct {
	ID           ID
	Email        c.Email
	PasswordHash c.Optional[PasswordHash]
	CreatedAt    time.Time

	RecoveryToken         c.Optional[RecoveryToken]
	RecoveryTokenExpiryAt c.Optional[time.Time]
	RecoverySentAt        c.Optional[time.Time]
	RecoveredAt           c.Optional[time.Time]
}

func (u User) Validate() error {
	if u.Email == "" {
		return e.NewInvalidStateError("email is not set for user %d", u.ID)
	}
	if u.RecoveryToken.IsPresent && !u.RecoveryTokenExpiryAt.IsPresent {
		return e.NewInvalidStateError("recovery token of user %d has no expiry", u.ID)
	}
	return nil
}

func (u User) IsRecovered() bool {
	return u.RecoveredAt.IsPresent
}
