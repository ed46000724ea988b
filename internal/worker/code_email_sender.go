package worker

import (
	"context"
	"fmt"

	"github.com/pantrykeep/backend/internal/config"
	emailProvider "github.com/pantrykeep/backend/pkg/email"
)

type codeEmailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
}

func newCodeEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
) *codeEmailSender {
	return &codeEmailSender{
		sender: sender,
		config: config,
	}
}

type verificationEmailInput struct {
	VerificationCode string
}

func (s *codeEmailSender) SendVerificationCodeEmail(ctx context.Context, email string, verificationCode string) error {
	if !s.config.Enabled {
		return nil
	}

	subject := "Your verification code"

	templateInput := verificationEmailInput{verificationCode}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	if err := sendInput.GenerateBodyFromHTML(s.config.Templates.Verification, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
