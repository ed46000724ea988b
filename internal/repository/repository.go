package repository

import (
	"context"

	"github.com/pantrykeep/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Accounts          Accounts
	VerificationCodes VerificationCodes
	RefreshSessions   RefreshSessions
	LoginEvents       LoginEvents
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Accounts:          newAccountRepository(db),
		VerificationCodes: newVerificationCodeRepository(db),
		RefreshSessions:   newRefreshSessionRepository(db),
		LoginEvents:       newLoginEventRepository(db),
	}
}

type Accounts interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetContactVerified(ctx context.Context, id uuid.UUID) error
	UpdateContact(ctx context.Context, id uuid.UUID, contact string) error
	CountByContact(ctx context.Context, contact string, excludeID *uuid.UUID) (int, error)
}

type VerificationCodes interface {
	Create(ctx context.Context, code *domain.VerificationCode) error
	GetLatestActive(ctx context.Context, destination string, code *string, purpose *domain.Purpose) (*domain.VerificationCode, error)
	GetLatestAny(ctx context.Context, destination string) (*domain.VerificationCode, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) (int, error)
	Consume(ctx context.Context, id uuid.UUID) error
}

type RefreshSessions interface {
	Create(ctx context.Context, session *domain.RefreshSession) error
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.RefreshSession, error)
	DeleteByToken(ctx context.Context, token uuid.UUID) error
}

type LoginEvents interface {
	Create(ctx context.Context, event *domain.LoginEvent) error
}
