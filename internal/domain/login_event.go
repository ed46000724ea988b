package domain

import (
	"time"

	"github.com/google/uuid"
)

type LoginEvent struct {
	ID        uuid.UUID  `db:"id"`
	AccountID *uuid.UUID `db:"account_id"`
	Email     string     `db:"email"`
	Success   bool       `db:"success"`
	IP        string     `db:"ip"`
	UserAgent string     `db:"user_agent"`
	CreatedAt time.Time  `db:"created_at"`
}
