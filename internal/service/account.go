package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pantrykeep/backend/internal/domain"
	"github.com/pantrykeep/backend/internal/repository"
	"github.com/pantrykeep/backend/pkg/auth"
	"github.com/pantrykeep/backend/pkg/hash"
	"github.com/pantrykeep/backend/pkg/mask"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type accountService struct {
	accounts     repository.Accounts
	sessions     repository.RefreshSessions
	loginEvents  repository.LoginEvents
	verification Verification
	codeSender   CodeSender
	throttle     ResendThrottle
	hasher       hash.PasswordHasher
	tokenManager auth.TokenManager
	logger       *zap.Logger
}

func newAccountService(
	accounts repository.Accounts,
	sessions repository.RefreshSessions,
	loginEvents repository.LoginEvents,
	verification Verification,
	codeSender CodeSender,
	throttle ResendThrottle,
	hasher hash.PasswordHasher,
	tokenManager auth.TokenManager,
	logger *zap.Logger,
) *accountService {
	return &accountService{
		accounts:     accounts,
		sessions:     sessions,
		loginEvents:  loginEvents,
		verification: verification,
		codeSender:   codeSender,
		throttle:     throttle,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

type Tokens struct {
	AccessToken  string
	AccessTTL    time.Duration
	RefreshToken uuid.UUID
	RefreshTTL   time.Duration
}

type SignUpInput struct {
	Email     string
	Password  string
	Contact   string
	UserAgent string
	IP        string
}

type AuthResult struct {
	AccountID            uuid.UUID
	Tokens               Tokens
	RequiresVerification bool
}

func (s *accountService) createSession(ctx context.Context, accountID uuid.UUID, userAgent string, userIP string) (*Tokens, error) {
	var (
		res Tokens
		err error
	)

	res.AccessToken, res.AccessTTL, err = s.tokenManager.NewJWT(accountID)
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	res.RefreshToken, res.RefreshTTL, err = s.tokenManager.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate refresh session id failed: %w", err)
	}
	session := &domain.RefreshSession{
		ID:           sessionID,
		AccountID:    accountID,
		RefreshToken: res.RefreshToken,
		UserAgent:    userAgent,
		IP:           userIP,
		ExpiresIn:    time.Now().Add(res.RefreshTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create refresh session failed: %w", err)
	}

	return &res, nil
}

// SignUp registers an account and issues a signup code to its contact method.
// Tokens are handed out before verification; protected routes gate on the
// verified flag, not on token issuance.
func (s *accountService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)

	contact, _, err := domain.NormalizeContact(input.Contact)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get account by email failed: %w", err)
	}

	count, err := s.accounts.CountByContact(ctx, contact, nil)
	if err != nil {
		return nil, fmt.Errorf("count accounts by contact failed: %w", err)
	}
	if count >= domain.MaxAccountsPerContact {
		return nil, ErrContactLimitReached
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	accountID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate account id failed: %w", err)
	}

	account := &domain.Account{
		ID:              accountID,
		Email:           email,
		PasswordHash:    passwordHash,
		Contact:         &contact,
		ContactVerified: false,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account failed: %w", err)
	}

	tokens, err := s.createSession(ctx, accountID, input.UserAgent, input.IP)
	if err != nil {
		return nil, fmt.Errorf("create session failed: %w", err)
	}

	result := &AuthResult{
		AccountID:            accountID,
		Tokens:               *tokens,
		RequiresVerification: true,
	}

	if err := s.issueAndDispatch(ctx, contact, domain.PurposeSignup, &accountID); err != nil {
		return result, err
	}

	return result, nil
}

// issueAndDispatch persists the code row first, then attempts delivery. A
// delivery failure never invalidates the persisted row, resend stays possible.
func (s *accountService) issueAndDispatch(ctx context.Context, destination string, purpose domain.Purpose, ownerID *uuid.UUID) error {
	row, err := s.verification.Issue(ctx, destination, purpose, ownerID)
	if err != nil {
		return fmt.Errorf("issue verification code failed: %w", err)
	}

	if err := s.codeSender.Send(ctx, row.Destination, row.Code); err != nil {
		s.logger.Error("verification code delivery failed",
			zap.String("destination", mask.Contact(row.Destination)),
			zap.String("purpose", string(purpose)),
			zap.Error(err),
		)
		return ErrDeliveryFailed
	}

	return nil
}

func (s *accountService) SignIn(ctx context.Context, email, password, userAgent, userIP string) (*Tokens, error) {
	email = domain.NormalizeEmail(email)

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.recordLoginEvent(ctx, nil, email, false, userIP, userAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account by email failed: %w", err)
	}

	ok, err := s.hasher.Verify(account.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("verify password failed: %w", err)
	}
	if !ok {
		s.recordLoginEvent(ctx, &account.ID, email, false, userIP, userAgent)
		return nil, ErrInvalidCredentials
	}

	s.recordLoginEvent(ctx, &account.ID, email, true, userIP, userAgent)

	tokens, err := s.createSession(ctx, account.ID, userAgent, userIP)
	if err != nil {
		return nil, fmt.Errorf("create session failed: %w", err)
	}

	return tokens, nil
}

// recordLoginEvent is best-effort audit, a failure never aborts the login.
func (s *accountService) recordLoginEvent(ctx context.Context, accountID *uuid.UUID, email string, success bool, ip, userAgent string) {
	id, err := uuid.NewV7()
	if err != nil {
		s.logger.Error("generate login event id failed", zap.Error(err))
		return
	}

	event := &domain.LoginEvent{
		ID:        id,
		AccountID: accountID,
		Email:     email,
		Success:   success,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.loginEvents.Create(ctx, event); err != nil {
		s.logger.Error("record login event failed", zap.Error(err))
	}
}

func (s *accountService) ResendCode(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.accounts.GetOneByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("get account failed: %w", err)
	}

	if account.ContactVerified {
		return ErrAlreadyVerified
	}
	if account.Contact == nil {
		return ErrNoContact
	}

	allowed, err := s.throttle.Allow(ctx, "resend:"+accountID.String())
	if err != nil {
		return fmt.Errorf("resend throttle check failed: %w", err)
	}
	if !allowed {
		return ErrResendThrottled
	}

	return s.issueAndDispatch(ctx, *account.Contact, domain.PurposeSignup, &account.ID)
}

func (s *accountService) ConfirmSignUp(ctx context.Context, destination string, code string) error {
	purpose := domain.PurposeSignup
	if _, err := s.verification.Verify(ctx, destination, code, &purpose); err != nil {
		return err
	}
	return nil
}

// RequestPasswordReset never reveals whether an account exists: the masked
// contact comes back empty both for unknown emails and unverified contacts,
// with an identical response shape.
func (s *accountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = domain.NormalizeEmail(email)

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get account by email failed: %w", err)
	}

	if !account.ContactVerified || account.Contact == nil {
		return "", nil
	}

	allowed, err := s.throttle.Allow(ctx, "reset:"+account.ID.String())
	if err != nil {
		return "", fmt.Errorf("resend throttle check failed: %w", err)
	}
	if !allowed {
		return "", nil
	}

	if err := s.issueAndDispatch(ctx, *account.Contact, domain.PurposePasswordReset, &account.ID); err != nil {
		return "", err
	}

	return mask.Contact(*account.Contact), nil
}

func (s *accountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = domain.NormalizeEmail(email)

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// same rejection a wrong destination gets, no existence leak
			return &VerifyError{Reason: ReasonNoCodeFound}
		}
		return fmt.Errorf("get account by email failed: %w", err)
	}

	if !account.ContactVerified || account.Contact == nil {
		return &VerifyError{Reason: ReasonNoCodeFound}
	}

	purpose := domain.PurposePasswordReset
	if _, err := s.verification.Verify(ctx, *account.Contact, code, &purpose); err != nil {
		return err
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return fmt.Errorf("update password failed: %w", err)
	}

	return nil
}

func (s *accountService) RequestContactChange(ctx context.Context, accountID uuid.UUID, newContact string) error {
	if _, err := s.accounts.GetOneByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("get account failed: %w", err)
	}

	contact, _, err := domain.NormalizeContact(newContact)
	if err != nil {
		return err
	}

	count, err := s.accounts.CountByContact(ctx, contact, &accountID)
	if err != nil {
		return fmt.Errorf("count accounts by contact failed: %w", err)
	}
	if count >= domain.MaxAccountsPerContact {
		return ErrContactLimitReached
	}

	allowed, err := s.throttle.Allow(ctx, "change:"+accountID.String())
	if err != nil {
		return fmt.Errorf("resend throttle check failed: %w", err)
	}
	if !allowed {
		return ErrResendThrottled
	}

	return s.issueAndDispatch(ctx, contact, domain.PurposeContactChange, &accountID)
}

func (s *accountService) ConfirmContactChange(ctx context.Context, accountID uuid.UUID, newContact string, code string) error {
	contact, _, err := domain.NormalizeContact(newContact)
	if err != nil {
		return err
	}

	// cap re-check before the code is consumed, excluding the account itself
	count, err := s.accounts.CountByContact(ctx, contact, &accountID)
	if err != nil {
		return fmt.Errorf("count accounts by contact failed: %w", err)
	}
	if count >= domain.MaxAccountsPerContact {
		return ErrContactLimitReached
	}

	purpose := domain.PurposeContactChange
	result, err := s.verification.Verify(ctx, contact, code, &purpose)
	if err != nil {
		return err
	}

	if result.AccountID == nil || *result.AccountID != accountID {
		return ErrAccountNotFound
	}

	return nil
}

func (s *accountService) RefreshSession(ctx context.Context, refreshToken uuid.UUID, userAgent, userIP string) (*Tokens, error) {
	session, err := s.sessions.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("get refresh session failed: %w", err)
	}

	if time.Now().After(session.ExpiresIn) {
		_ = s.sessions.DeleteByToken(ctx, refreshToken)
		return nil, ErrSessionExpired
	}

	if err := s.sessions.DeleteByToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("rotate refresh session failed: %w", err)
	}

	tokens, err := s.createSession(ctx, session.AccountID, userAgent, userIP)
	if err != nil {
		return nil, fmt.Errorf("create session failed: %w", err)
	}

	return tokens, nil
}

func (s *accountService) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account failed: %w", err)
	}
	return account, nil
}
