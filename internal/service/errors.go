package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrContactLimitReached = errors.New("contact method account limit reached")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAlreadyVerified     = errors.New("contact already verified")
	ErrNoContact           = errors.New("no contact method on file")
	ErrResendThrottled     = errors.New("resend throttled")
	ErrDeliveryFailed      = errors.New("verification code delivery failed")
	ErrSessionExpired      = errors.New("refresh session expired")
)

type VerifyFailureReason string

const (
	ReasonNoCodeFound     VerifyFailureReason = "NO_CODE_FOUND"
	ReasonAlreadyUsed     VerifyFailureReason = "ALREADY_USED"
	ReasonExpired         VerifyFailureReason = "EXPIRED"
	ReasonMaxAttempts     VerifyFailureReason = "MAX_ATTEMPTS"
	ReasonPurposeMismatch VerifyFailureReason = "PURPOSE_MISMATCH"
	ReasonIncorrectCode   VerifyFailureReason = "INCORRECT_CODE"
)

// VerifyError is the typed rejection of a code submission. Callers branch on
// Reason with errors.As instead of matching message strings.
type VerifyError struct {
	Reason            VerifyFailureReason
	RemainingAttempts int
}

func (e *VerifyError) Error() string {
	if e.Reason == ReasonIncorrectCode {
		return fmt.Sprintf("verification failed: %s (%d attempts remaining)", e.Reason, e.RemainingAttempts)
	}
	return fmt.Sprintf("verification failed: %s", e.Reason)
}
