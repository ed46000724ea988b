package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pantrykeep/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type accountRepository struct {
	db *sqlx.DB
}

func newAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{
		db: db,
	}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const op = "repository.account.Create"

	const query = `
    INSERT INTO accounts (id, email, password_hash, contact, contact_verified)
    VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query, account.ID, account.Email, account.PasswordHash, account.Contact, account.ContactVerified)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert account failed: %w", op, err)
	}

	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const op = "repository.account.GetByEmail"

	const query = `
    SELECT id, email, password_hash, contact, contact_verified, created_at, updated_at, deleted_at
    FROM accounts
    WHERE email = $1 AND deleted_at IS NULL
    `

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select account failed: %w", op, err)
	}

	return &account, nil
}

func (r *accountRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	const op = "repository.account.GetOneByID"

	const query = `
    SELECT id, email, password_hash, contact, contact_verified, created_at, updated_at, deleted_at
    FROM accounts
    WHERE id = $1 AND deleted_at IS NULL
    `

	var account domain.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select account failed: %w", op, err)
	}

	return &account, nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const op = "repository.account.UpdatePassword"

	const query = `
    UPDATE accounts
    SET password_hash = $2, updated_at = now()
    WHERE id = $1 AND deleted_at IS NULL
    `

	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("%s: update account failed: %w", op, err)
	}

	return requireOneRow(res, op)
}

func (r *accountRepository) SetContactVerified(ctx context.Context, id uuid.UUID) error {
	const op = "repository.account.SetContactVerified"

	const query = `
    UPDATE accounts
    SET contact_verified = true, updated_at = now()
    WHERE id = $1 AND deleted_at IS NULL
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: update account failed: %w", op, err)
	}

	return requireOneRow(res, op)
}

func (r *accountRepository) UpdateContact(ctx context.Context, id uuid.UUID, contact string) error {
	const op = "repository.account.UpdateContact"

	// contact and its verified flag move together, in one statement
	const query = `
    UPDATE accounts
    SET contact = $2, contact_verified = true, updated_at = now()
    WHERE id = $1 AND deleted_at IS NULL
    `

	res, err := r.db.ExecContext(ctx, query, id, contact)
	if err != nil {
		return fmt.Errorf("%s: update account failed: %w", op, err)
	}

	return requireOneRow(res, op)
}

func (r *accountRepository) CountByContact(ctx context.Context, contact string, excludeID *uuid.UUID) (int, error) {
	const op = "repository.account.CountByContact"

	const query = `
    SELECT count(*)
    FROM accounts
    WHERE contact = $1 AND deleted_at IS NULL AND ($2::uuid IS NULL OR id <> $2)
    `

	var count int
	if err := r.db.GetContext(ctx, &count, query, contact, excludeID); err != nil {
		return 0, fmt.Errorf("%s: count accounts failed: %w", op, err)
	}

	return count, nil
}

func requireOneRow(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}
