package service

import (
	"context"
	"testing"
	"time"

	"github.com/pantrykeep/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(codes *memCodes, accounts *memAccounts, generator *stubGenerator) *verificationService {
	return newVerificationService(codes, accounts, generator, domain.VerificationCodeSize, zap.NewNop())
}

func purposePtr(p domain.Purpose) *domain.Purpose {
	return &p
}

func requireVerifyReason(t *testing.T, err error, reason VerifyFailureReason) *VerifyError {
	t.Helper()
	var verifyErr *VerifyError
	require.ErrorAs(t, err, &verifyErr)
	require.Equal(t, reason, verifyErr.Reason)
	return verifyErr
}

func TestVerify_SucceedsExactlyOnce(t *testing.T) {
	codes := &memCodes{}
	accounts := newMemAccounts()
	engine := newTestEngine(codes, accounts, &stubGenerator{codes: []string{"482913"}})
	ctx := context.Background()

	row, err := engine.Issue(ctx, "+15551234567", domain.PurposeSignup, nil)
	require.NoError(t, err)
	assert.Equal(t, "482913", row.Code)
	assert.Equal(t, "+15551234567", row.Destination)

	result, err := engine.Verify(ctx, "+15551234567", "482913", purposePtr(domain.PurposeSignup))
	require.NoError(t, err)
	assert.Nil(t, result.AccountID)
	assert.True(t, codes.latest("+15551234567").Consumed)

	_, err = engine.Verify(ctx, "+15551234567", "482913", purposePtr(domain.PurposeSignup))
	requireVerifyReason(t, err, ReasonAlreadyUsed)
}

func TestVerify_ScenarioWrongThenRight(t *testing.T) {
	codes := &memCodes{}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"482913"}})
	ctx := context.Background()

	_, err := engine.Issue(ctx, "+15551234567", domain.PurposeSignup, nil)
	require.NoError(t, err)

	_, err = engine.Verify(ctx, "+15551234567", "000000", purposePtr(domain.PurposeSignup))
	verifyErr := requireVerifyReason(t, err, ReasonIncorrectCode)
	assert.Equal(t, 4, verifyErr.RemainingAttempts)

	_, err = engine.Verify(ctx, "+15551234567", "482913", purposePtr(domain.PurposeSignup))
	require.NoError(t, err)
	assert.True(t, codes.latest("+15551234567").Consumed)

	_, err = engine.Verify(ctx, "+15551234567", "482913", purposePtr(domain.PurposeSignup))
	requireVerifyReason(t, err, ReasonAlreadyUsed)
}

func TestVerify_AttemptBudget(t *testing.T) {
	codes := &memCodes{}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"111111"}})
	ctx := context.Background()

	_, err := engine.Issue(ctx, "user@example.com", domain.PurposeSignup, nil)
	require.NoError(t, err)

	for want := 4; want >= 0; want-- {
		_, err := engine.Verify(ctx, "user@example.com", "999999", purposePtr(domain.PurposeSignup))
		verifyErr := requireVerifyReason(t, err, ReasonIncorrectCode)
		assert.Equal(t, want, verifyErr.RemainingAttempts)
	}

	// even the correct code is refused once the budget is spent
	_, err = engine.Verify(ctx, "user@example.com", "111111", purposePtr(domain.PurposeSignup))
	requireVerifyReason(t, err, ReasonMaxAttempts)

	_, err = engine.Verify(ctx, "user@example.com", "999999", purposePtr(domain.PurposeSignup))
	requireVerifyReason(t, err, ReasonMaxAttempts)
}

func TestVerify_Expired(t *testing.T) {
	codes := &memCodes{}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"222222"}})
	ctx := context.Background()

	row, err := engine.Issue(ctx, "user@example.com", domain.PurposeSignup, nil)
	require.NoError(t, err)

	codes.backdate(row.ID, time.Now().Add(-time.Minute))

	_, err = engine.Verify(ctx, "user@example.com", "222222", purposePtr(domain.PurposeSignup))
	requireVerifyReason(t, err, ReasonExpired)

	// expired rows are inert, no attempt was recorded
	assert.Equal(t, 0, codes.latest("user@example.com").Attempts)
}

func TestVerify_PurposeScoping(t *testing.T) {
	codes := &memCodes{}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"333333"}})
	ctx := context.Background()

	_, err := engine.Issue(ctx, "user@example.com", domain.PurposePasswordReset, nil)
	require.NoError(t, err)

	_, err = engine.Verify(ctx, "user@example.com", "333333", purposePtr(domain.PurposeContactChange))
	requireVerifyReason(t, err, ReasonPurposeMismatch)

	// the mismatch burned no attempts and the code still works for its purpose
	assert.Equal(t, 0, codes.latest("user@example.com").Attempts)

	_, err = engine.Verify(ctx, "user@example.com", "333333", purposePtr(domain.PurposePasswordReset))
	require.NoError(t, err)
}

func TestVerify_NoCodeFound(t *testing.T) {
	engine := newTestEngine(&memCodes{}, newMemAccounts(), &stubGenerator{})

	_, err := engine.Verify(context.Background(), "nobody@example.com", "123456", nil)
	requireVerifyReason(t, err, ReasonNoCodeFound)
}

func TestVerify_ReissueLeavesHistoryIntact(t *testing.T) {
	codes := &memCodes{}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"444444", "555555"}})
	ctx := context.Background()

	first, err := engine.Issue(ctx, "user@example.com", domain.PurposeSignup, nil)
	require.NoError(t, err)
	second, err := engine.Issue(ctx, "user@example.com", domain.PurposeSignup, nil)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)

	// newest row wins; the older one is untouched by the reissue
	_, err = engine.Verify(ctx, "user@example.com", "555555", purposePtr(domain.PurposeSignup))
	require.NoError(t, err)
	assert.False(t, codes.rows[0].Consumed)
	assert.Equal(t, 0, codes.rows[0].Attempts)

	// the older active row still matches by exact code
	_, err = engine.Verify(ctx, "user@example.com", "444444", purposePtr(domain.PurposeSignup))
	require.NoError(t, err)
}

func TestVerify_SignupFlipsVerifiedFlag(t *testing.T) {
	codes := &memCodes{}
	accounts := newMemAccounts()
	engine := newTestEngine(codes, accounts, &stubGenerator{codes: []string{"666666"}})
	ctx := context.Background()

	contact := "+15551234567"
	account := &domain.Account{ID: uuid.Must(uuid.NewV7()), Email: "a@example.com", Contact: &contact}
	require.NoError(t, accounts.Create(ctx, account))

	_, err := engine.Issue(ctx, contact, domain.PurposeSignup, &account.ID)
	require.NoError(t, err)

	result, err := engine.Verify(ctx, contact, "666666", purposePtr(domain.PurposeSignup))
	require.NoError(t, err)
	require.NotNil(t, result.AccountID)
	assert.Equal(t, account.ID, *result.AccountID)

	got, err := accounts.GetOneByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.ContactVerified)
}

func TestVerify_ContactChangeAppliesContact(t *testing.T) {
	codes := &memCodes{}
	accounts := newMemAccounts()
	engine := newTestEngine(codes, accounts, &stubGenerator{codes: []string{"777777"}})
	ctx := context.Background()

	oldContact := "+15550000000"
	account := &domain.Account{ID: uuid.Must(uuid.NewV7()), Email: "a@example.com", Contact: &oldContact, ContactVerified: true}
	require.NoError(t, accounts.Create(ctx, account))

	_, err := engine.Issue(ctx, "+15559999999", domain.PurposeContactChange, &account.ID)
	require.NoError(t, err)

	_, err = engine.Verify(ctx, "+15559999999", "777777", purposePtr(domain.PurposeContactChange))
	require.NoError(t, err)

	got, err := accounts.GetOneByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Contact)
	assert.Equal(t, "+15559999999", *got.Contact)
	assert.True(t, got.ContactVerified)
}

func TestVerify_LostConsumeRaceReportsAlreadyUsed(t *testing.T) {
	codes := &memCodes{consumeErr: domain.ErrNoRowsAffected}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"888888"}})
	ctx := context.Background()

	_, err := engine.Issue(ctx, "user@example.com", domain.PurposeSignup, nil)
	require.NoError(t, err)

	_, err = engine.Verify(ctx, "user@example.com", "888888", purposePtr(domain.PurposeSignup))
	requireVerifyReason(t, err, ReasonAlreadyUsed)
}

func TestVerify_NormalizesDestination(t *testing.T) {
	codes := &memCodes{}
	engine := newTestEngine(codes, newMemAccounts(), &stubGenerator{codes: []string{"123123"}})
	ctx := context.Background()

	_, err := engine.Issue(ctx, "  User@Example.COM ", domain.PurposeSignup, nil)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", codes.latest("user@example.com").Destination)

	_, err = engine.Verify(ctx, "USER@example.com", "123123", purposePtr(domain.PurposeSignup))
	require.NoError(t, err)
}
