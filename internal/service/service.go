package service

import (
	"context"

	"github.com/pantrykeep/backend/internal/config"
	"github.com/pantrykeep/backend/internal/domain"
	"github.com/pantrykeep/backend/internal/repository"
	"github.com/pantrykeep/backend/pkg/auth"
	"github.com/pantrykeep/backend/pkg/hash"
	"github.com/pantrykeep/backend/pkg/otp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Services struct {
	Accounts     Accounts
	Verification Verification
}

type Deps struct {
	Logger       *zap.Logger
	Config       *config.Config
	Hasher       hash.PasswordHasher
	TokenManager auth.TokenManager
	OtpGenerator otp.Generator
	CodeSender   CodeSender
	Throttle     ResendThrottle
	Repos        *repository.Repositories
}

func NewServices(deps Deps) *Services {
	verification := newVerificationService(
		deps.Repos.VerificationCodes,
		deps.Repos.Accounts,
		deps.OtpGenerator,
		deps.Config.Auth.VerificationCodeLength,
		deps.Logger,
	)

	return &Services{
		Verification: verification,
		Accounts: newAccountService(
			deps.Repos.Accounts,
			deps.Repos.RefreshSessions,
			deps.Repos.LoginEvents,
			verification,
			deps.CodeSender,
			deps.Throttle,
			deps.Hasher,
			deps.TokenManager,
			deps.Logger,
		),
	}
}

type Accounts interface {
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, email, password, userAgent, userIP string) (*Tokens, error)
	ResendCode(ctx context.Context, accountID uuid.UUID) error
	ConfirmSignUp(ctx context.Context, destination string, code string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	RequestContactChange(ctx context.Context, accountID uuid.UUID, newContact string) error
	ConfirmContactChange(ctx context.Context, accountID uuid.UUID, newContact string, code string) error
	RefreshSession(ctx context.Context, refreshToken uuid.UUID, userAgent, userIP string) (*Tokens, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

type Verification interface {
	Issue(ctx context.Context, destination string, purpose domain.Purpose, ownerID *uuid.UUID) (*domain.VerificationCode, error)
	Verify(ctx context.Context, destination string, submittedCode string, expectedPurpose *domain.Purpose) (*VerifyResult, error)
}

// CodeSender delivers an issued code to its destination. Implementations route
// by contact kind (SMTP queue for emails, SMS provider for phones).
type CodeSender interface {
	Send(ctx context.Context, destination string, code string) error
}

// ResendThrottle limits how often codes may be issued for one key.
type ResendThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}
