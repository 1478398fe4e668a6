package user

import (
	"context"
	c "recoverable/internal/core/domain/common"
	"time"
)

// Criteria selects a single user. Every present field must match.
type Criteria struct {
	ID    c.Optional[ID]
	Email c.Optional[c.Email]
}

func (cr Criteria) IsEmpty() bool {
	return !cr.ID.IsPresent && !cr.Email.IsPresent
}

func (cr Criteria) Matches(u User) bool {
	if cr.IsEmpty() {
		return false
	}
	if cr.ID.IsPresent && cr.ID.Value != u.ID {
		return false
	}
	if cr.Email.IsPresent && cr.Email.Value != u.Email {
		return false
	}
	return true
}

type Repository interface {
	FindOne(ctx context.Context, criteria Criteria) (User, error)
	GetByRecoveryToken(ctx context.Context, token RecoveryToken) (User, error)
	Save(ctx context.Context, u User) error
}

type CreateUserInput struct {
	Email        c.Email
	PasswordHash c.Optional[PasswordHash]
	CreatedAt    time.Time
}
