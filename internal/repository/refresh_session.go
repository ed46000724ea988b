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

type refreshSessionRepository struct {
	db *sqlx.DB
}

func newRefreshSessionRepository(db *sqlx.DB) *refreshSessionRepository {
	return &refreshSessionRepository{
		db: db,
	}
}

func (r *refreshSessionRepository) Create(ctx context.Context, session *domain.RefreshSession) error {
	const op = "repository.refreshSession.Create"

	const query = `
    INSERT INTO refresh_sessions (id, account_id, refresh_token, user_agent, ip, expires_in)
    VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.db.ExecContext(ctx, query, session.ID, session.AccountID, session.RefreshToken, session.UserAgent, session.IP, session.ExpiresIn)
	if err != nil {
		return fmt.Errorf("%s: insert refresh session failed: %w", op, err)
	}

	return nil
}

func (r *refreshSessionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*domain.RefreshSession, error) {
	const op = "repository.refreshSession.GetByToken"

	const query = `
    SELECT id, account_id, refresh_token, user_agent, ip, expires_in, created_at, updated_at, deleted_at
    FROM refresh_sessions
    WHERE refresh_token = $1 AND deleted_at IS NULL
    `

	var session domain.RefreshSession
	if err := r.db.GetContext(ctx, &session, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select refresh session failed: %w", op, err)
	}

	return &session, nil
}

func (r *refreshSessionRepository) DeleteByToken(ctx context.Context, token uuid.UUID) error {
	const op = "repository.refreshSession.DeleteByToken"

	const query = `
    UPDATE refresh_sessions
    SET deleted_at = now()
    WHERE refresh_token = $1 AND deleted_at IS NULL
    `

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("%s: delete refresh session failed: %w", op, err)
	}

	return nil
}
