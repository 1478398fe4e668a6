package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	c "recoverable/internal/core/domain/common"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/db"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, email, password_hash, created_at,
	recovery_token, recovery_token_expiry_at, recovery_sent_at, recovered_at`

type PgxRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxRepository{db: dbtx}
}

func (r *PgxRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, password_hash, created_at) VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		string(input.Email),
		encodePasswordHash(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if isEmailUniqueViolation(err) {
		return u, user.ErrEmailAlreadyExists
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxRepository) FindOne(ctx context.Context, criteria user.Criteria) (u user.User, err error) {
	if criteria.IsEmpty() {
		return u, user.ErrUserDoesNotExist
	}

	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if criteria.ID.IsPresent {
		args = append(args, int64(criteria.ID.Value))
		conditions = append(conditions, fmt.Sprintf("id = $%d", len(args)))
	}
	if criteria.Email.IsPresent {
		args = append(args, string(criteria.Email.Value))
		conditions = append(conditions, fmt.Sprintf("email = $%d", len(args)))
	}

	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE `+strings.Join(conditions, " AND ")+` LIMIT 1`,
		args...,
	)
	return r.decodeRow(row)
}

// GetByRecoveryToken compares tokens by equality. Passcodes are short enough
// to collide between users, the most recently issued one wins.
func (r *PgxRepository) GetByRecoveryToken(ctx context.Context, token user.RecoveryToken) (u user.User, err error) {
	if token == "" {
		return u, user.ErrUserDoesNotExist
	}
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user" WHERE recovery_token = $1
		ORDER BY recovery_token_expiry_at DESC LIMIT 1`,
		string(token),
	)
	return r.decodeRow(row)
}

func (r *PgxRepository) Save(ctx context.Context, u user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET
			email = $2,
			password_hash = $3,
			recovery_token = $4,
			recovery_token_expiry_at = $5,
			recovery_sent_at = $6,
			recovered_at = $7
		WHERE id = $1`,
		int64(u.ID),
		string(u.Email),
		encodePasswordHash(u.PasswordHash),
		encodeRecoveryToken(u.RecoveryToken),
		encodeOptionalTime(u.RecoveryTokenExpiryAt),
		encodeOptionalTime(u.RecoverySentAt),
		encodeOptionalTime(u.RecoveredAt),
	)
	if isEmailUniqueViolation(err) {
		return user.ErrEmailAlreadyExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxRepository) decodeRow(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id                    int64
		email                 string
		passwordHash          sql.NullString
		createdAt             time.Time
		recoveryToken         sql.NullString
		recoveryTokenExpiryAt sql.NullTime
		recoverySentAt        sql.NullTime
		recoveredAt           sql.NullTime
	)
	err = row.Scan(
		&id,
		&email,
		&passwordHash,
		&createdAt,
		&recoveryToken,
		&recoveryTokenExpiryAt,
		&recoverySentAt,
		&recoveredAt,
	)
	if err != nil {
		return u, err
	}
	return user.User{
		ID:                    user.ID(id),
		Email:                 c.Email(email),
		PasswordHash:          c.NewOptional(user.PasswordHash(passwordHash.String), passwordHash.Valid),
		CreatedAt:             createdAt.UTC(),
		RecoveryToken:         c.NewOptional(user.RecoveryToken(recoveryToken.String), recoveryToken.Valid),
		RecoveryTokenExpiryAt: decodeOptionalTime(recoveryTokenExpiryAt),
		RecoverySentAt:        decodeOptionalTime(recoverySentAt),
		RecoveredAt:           decodeOptionalTime(recoveredAt),
	}, nil
}

func isEmailUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
		pgErr.ConstraintName == EMAIL_CONSTRAINT_NAME
}

func encodePasswordHash(ph c.Optional[user.PasswordHash]) sql.NullString {
	return sql.NullString{String: string(ph.Value), Valid: ph.IsPresent}
}

func encodeRecoveryToken(token c.Optional[user.RecoveryToken]) sql.NullString {
	return sql.NullString{String: string(token.Value), Valid: token.IsPresent}
}

func encodeOptionalTime(at c.Optional[time.Time]) sql.NullTime {
	return sql.NullTime{Time: at.Value, Valid: at.IsPresent}
}

func decodeOptionalTime(at sql.NullTime) c.Optional[time.Time] {
	if !at.Valid {
		return c.None[time.Time]()
	}
	return c.Some(at.Time.UTC())
}
