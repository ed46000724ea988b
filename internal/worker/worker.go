package worker

import (
	"context"

	"github.com/pantrykeep/backend/internal/config"
	emailProvider "github.com/pantrykeep/backend/pkg/email"
)

type Workers struct {
	CodeEmailSender CodeEmailSender
}

type Deps struct {
	EmailProvider emailProvider.Sender
	Config        *config.Config
}

type CodeEmailSender interface {
	SendVerificationCodeEmail(ctx context.Context, email string, verificationCode string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		CodeEmailSender: newCodeEmailSender(deps.EmailProvider, deps.Config.Email),
	}
}
