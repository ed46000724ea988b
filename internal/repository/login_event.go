package repository

import (
	"context"
	"fmt"

	"github.com/pantrykeep/backend/internal/domain"

	"github.com/jmoiron/sqlx"
)

type loginEventRepository struct {
	db *sqlx.DB
}

func newLoginEventRepository(db *sqlx.DB) *loginEventRepository {
	return &loginEventRepository{
		db: db,
	}
}

func (r *loginEventRepository) Create(ctx context.Context, event *domain.LoginEvent) error {
	const op = "repository.loginEvent.Create"

	const query = `
    INSERT INTO login_events (id, account_id, email, success, ip, user_agent)
    VALUES (:id, :account_id, :email, :success, :ip, :user_agent)
    `

	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("%s: insert login event failed: %w", op, err)
	}

	return nil
}
