package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pantrykeep/backend/internal/domain"
	"github.com/pantrykeep/backend/internal/repository"
	"github.com/pantrykeep/backend/pkg/otp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type verificationService struct {
	codes      repository.VerificationCodes
	accounts   repository.Accounts
	generator  otp.Generator
	codeLength int
	logger     *zap.Logger
}

func newVerificationService(
	codes repository.VerificationCodes,
	accounts repository.Accounts,
	generator otp.Generator,
	codeLength int,
	logger *zap.Logger,
) *verificationService {
	if codeLength <= 0 {
		codeLength = domain.VerificationCodeSize
	}
	return &verificationService{
		codes:      codes,
		accounts:   accounts,
		generator:  generator,
		codeLength: codeLength,
		logger:     logger,
	}
}

type VerifyResult struct {
	AccountID *uuid.UUID
}

// Issue persists a fresh code for the destination and purpose. Earlier rows
// for the same pair are left untouched, history is retained.
func (s *verificationService) Issue(ctx context.Context, destination string, purpose domain.Purpose, ownerID *uuid.UUID) (*domain.VerificationCode, error) {
	normalized, _, err := domain.NormalizeContact(destination)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate verification code id failed: %w", err)
	}

	now := time.Now()
	row := &domain.VerificationCode{
		ID:          id,
		Destination: normalized,
		Code:        s.generator.RandomCode(s.codeLength),
		Purpose:     purpose,
		AccountID:   ownerID,
		Attempts:    0,
		Consumed:    false,
		IssuedAt:    now,
		ExpiresAt:   now.Add(domain.VerificationCodeTTL),
	}

	if err := s.codes.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create verification code failed: %w", err)
	}

	return row, nil
}

// Verify decides whether a submitted (destination, code) pair is acceptable
// for the expected purpose. On acceptance the row is consumed atomically and,
// for account-gating purposes, the owner account is updated. Every rejection
// carries a specific reason as a *VerifyError.
func (s *verificationService) Verify(ctx context.Context, destination string, submittedCode string, expectedPurpose *domain.Purpose) (*VerifyResult, error) {
	normalized, _, err := domain.NormalizeContact(destination)
	if err != nil {
		return nil, err
	}

	row, err := s.codes.GetLatestActive(ctx, normalized, &submittedCode, expectedPurpose)
	if err == nil {
		return s.accept(ctx, normalized, row)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find active verification code failed: %w", err)
	}

	return nil, s.rejectReason(ctx, normalized, expectedPurpose)
}

func (s *verificationService) accept(ctx context.Context, destination string, row *domain.VerificationCode) (*VerifyResult, error) {
	if row.Attempts >= domain.MaxVerifyAttempts {
		return nil, &VerifyError{Reason: ReasonMaxAttempts}
	}

	if err := s.codes.Consume(ctx, row.ID); err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			// lost the race to a concurrent submission
			return nil, &VerifyError{Reason: ReasonAlreadyUsed}
		}
		return nil, fmt.Errorf("consume verification code failed: %w", err)
	}

	if row.AccountID != nil {
		switch row.Purpose {
		case domain.PurposeSignup:
			if err := s.accounts.SetContactVerified(ctx, *row.AccountID); err != nil {
				return nil, fmt.Errorf("set contact verified failed: %w", err)
			}
		case domain.PurposeContactChange:
			if err := s.accounts.UpdateContact(ctx, *row.AccountID, destination); err != nil {
				return nil, fmt.Errorf("update contact failed: %w", err)
			}
		}
	}

	return &VerifyResult{AccountID: row.AccountID}, nil
}

// rejectReason inspects the newest row for the destination, in priority order,
// to name why the submission did not match an active code.
func (s *verificationService) rejectReason(ctx context.Context, destination string, expectedPurpose *domain.Purpose) error {
	latest, err := s.codes.GetLatestAny(ctx, destination)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &VerifyError{Reason: ReasonNoCodeFound}
		}
		return fmt.Errorf("find latest verification code failed: %w", err)
	}

	switch {
	case latest.Consumed:
		return &VerifyError{Reason: ReasonAlreadyUsed}
	case latest.Expired(time.Now()):
		return &VerifyError{Reason: ReasonExpired}
	case latest.Attempts >= domain.MaxVerifyAttempts:
		return &VerifyError{Reason: ReasonMaxAttempts}
	case expectedPurpose != nil && latest.Purpose != *expectedPurpose:
		return &VerifyError{Reason: ReasonPurposeMismatch}
	}

	attempts, err := s.codes.IncrementAttempts(ctx, latest.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			// row was consumed or expired between the two reads
			return &VerifyError{Reason: ReasonAlreadyUsed}
		}
		return fmt.Errorf("increment attempts failed: %w", err)
	}

	remaining := domain.MaxVerifyAttempts - attempts
	if remaining < 0 {
		remaining = 0
	}

	s.logger.Debug("verification code mismatch",
		zap.String("destination", destination),
		zap.Int("remaining_attempts", remaining),
	)

	return &VerifyError{Reason: ReasonIncorrectCode, RemainingAttempts: remaining}
}
