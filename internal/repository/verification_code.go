package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pantrykeep/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type verificationCodeRepository struct {
	db *sqlx.DB
}

func newVerificationCodeRepository(db *sqlx.DB) *verificationCodeRepository {
	return &verificationCodeRepository{
		db: db,
	}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *domain.VerificationCode) error {
	const op = "repository.verificationCode.Create"

	const query = `
    INSERT INTO verification_codes (id, destination, code, purpose, account_id, attempts, consumed, issued_at, expires_at)
    VALUES (:id, :destination, :code, :purpose, :account_id, :attempts, :consumed, :issued_at, :expires_at)
    `

	res, err := r.db.NamedExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("%s: insert verification code failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

// GetLatestActive returns the most recently issued row for the destination that
// is not consumed and not expired, optionally narrowed by exact code value and
// purpose. History rows older than the newest match are never considered.
func (r *verificationCodeRepository) GetLatestActive(ctx context.Context, destination string, code *string, purpose *domain.Purpose) (*domain.VerificationCode, error) {
	const op = "repository.verificationCode.GetLatestActive"

	const query = `
    SELECT id, destination, code, purpose, account_id, attempts, consumed, issued_at, expires_at
    FROM verification_codes
    WHERE destination = $1
      AND consumed = false
      AND expires_at > now()
      AND ($2::text IS NULL OR code = $2)
      AND ($3::text IS NULL OR purpose = $3)
    ORDER BY issued_at DESC
    LIMIT 1
    `

	var row domain.VerificationCode
	if err := r.db.GetContext(ctx, &row, query, destination, code, purpose); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select verification code failed: %w", op, err)
	}

	return &row, nil
}

func (r *verificationCodeRepository) GetLatestAny(ctx context.Context, destination string) (*domain.VerificationCode, error) {
	const op = "repository.verificationCode.GetLatestAny"

	const query = `
    SELECT id, destination, code, purpose, account_id, attempts, consumed, issued_at, expires_at
    FROM verification_codes
    WHERE destination = $1
    ORDER BY issued_at DESC
    LIMIT 1
    `

	var row domain.VerificationCode
	if err := r.db.GetContext(ctx, &row, query, destination); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select verification code failed: %w", op, err)
	}

	return &row, nil
}

func (r *verificationCodeRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	const op = "repository.verificationCode.IncrementAttempts"

	const query = `
    UPDATE verification_codes
    SET attempts = attempts + 1
    WHERE id = $1 AND consumed = false AND expires_at > now()
    RETURNING attempts
    `

	var attempts int
	if err := r.db.GetContext(ctx, &attempts, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNoRowsAffected
		}
		return 0, fmt.Errorf("%s: increment attempts failed: %w", op, err)
	}

	return attempts, nil
}

// Consume flips the consumed flag in a single conditional update. Of two
// concurrent submissions for the same row exactly one sees a row affected; the
// other gets ErrNoRowsAffected.
func (r *verificationCodeRepository) Consume(ctx context.Context, id uuid.UUID) error {
	const op = "repository.verificationCode.Consume"

	const query = `
    UPDATE verification_codes
    SET consumed = true
    WHERE id = $1 AND consumed = false AND attempts < $2 AND expires_at > now()
    `

	res, err := r.db.ExecContext(ctx, query, id, domain.MaxVerifyAttempts)
	if err != nil {
		return fmt.Errorf("%s: consume verification code failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}
