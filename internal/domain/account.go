package domain

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	Contact         *string    `db:"contact" json:"contact,omitempty"`
	ContactVerified bool       `db:"contact_verified" json:"contact_verified"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// MaxAccountsPerContact caps how many accounts may share one contact method.
const MaxAccountsPerContact = 5
