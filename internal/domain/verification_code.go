package domain

import (
	"time"

	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposePasswordReset Purpose = "password_reset"
	PurposeContactChange Purpose = "contact_change"
)

const (
	VerificationCodeTTL  = 10 * time.Minute
	MaxVerifyAttempts    = 5
	VerificationCodeSize = 6
)

type VerificationCode struct {
	ID          uuid.UUID  `db:"id"`
	Destination string     `db:"destination"`
	Code        string     `db:"code"`
	Purpose     Purpose    `db:"purpose"`
	AccountID   *uuid.UUID `db:"account_id"`
	Attempts    int        `db:"attempts"`
	Consumed    bool       `db:"consumed"`
	IssuedAt    time.Time  `db:"issued_at"`
	ExpiresAt   time.Time  `db:"expires_at"`
}

func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
