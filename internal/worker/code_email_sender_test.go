package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pantrykeep/backend/internal/config"
	"github.com/pantrykeep/backend/pkg/email"
	mock_email "github.com/pantrykeep/backend/pkg/email/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<html><body>Your code is {{.VerificationCode}}</body></html>`

func withTemplateDir(t *testing.T, name string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", name), []byte(testTemplate), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func TestSendVerificationCodeEmail(t *testing.T) {
	withTemplateDir(t, "verification_code.html")

	provider := new(mock_email.EmailSender)
	provider.On("Send", mock.MatchedBy(func(inp email.SendEmailInput) bool {
		return inp.To == "user@example.com" &&
			inp.Subject == "Your verification code" &&
			strings.Contains(inp.Body, "482913")
	})).Return(nil)

	sender := newCodeEmailSender(provider, config.EmailConfig{
		Enabled:   true,
		Templates: config.EmailTemplates{Verification: "verification_code.html"},
	})

	err := sender.SendVerificationCodeEmail(context.Background(), "user@example.com", "482913")
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestSendVerificationCodeEmail_Disabled(t *testing.T) {
	provider := new(mock_email.EmailSender)

	sender := newCodeEmailSender(provider, config.EmailConfig{Enabled: false})

	err := sender.SendVerificationCodeEmail(context.Background(), "user@example.com", "482913")
	assert.NoError(t, err)
	provider.AssertNotCalled(t, "Send", mock.Anything)
}
