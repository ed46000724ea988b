package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pantrykeep/backend/internal/domain"

	"github.com/google/uuid"
)

// In-memory fakes for the repository interfaces, mirroring the SQL semantics
// of the real implementations closely enough to exercise the engine rules.

type memCodes struct {
	mu   sync.Mutex
	rows []*domain.VerificationCode

	consumeErr error
}

func (m *memCodes) Create(_ context.Context, code *domain.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memCodes) GetLatestActive(_ context.Context, destination string, code *string, purpose *domain.Purpose) (*domain.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := *m.rows[i]
		if row.Destination != destination || row.Consumed || !row.ExpiresAt.After(now) {
			continue
		}
		if code != nil && row.Code != *code {
			continue
		}
		if purpose != nil && row.Purpose != *purpose {
			continue
		}
		return &row, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memCodes) GetLatestAny(_ context.Context, destination string) (*domain.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Destination == destination {
			row := *m.rows[i]
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCodes) IncrementAttempts(_ context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			if row.Consumed || !row.ExpiresAt.After(time.Now()) {
				return 0, domain.ErrNoRowsAffected
			}
			row.Attempts++
			return row.Attempts, nil
		}
	}
	return 0, domain.ErrNoRowsAffected
}

func (m *memCodes) Consume(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumeErr != nil {
		return m.consumeErr
	}
	for _, row := range m.rows {
		if row.ID == id {
			if row.Consumed || row.Attempts >= domain.MaxVerifyAttempts || !row.ExpiresAt.After(time.Now()) {
				return domain.ErrNoRowsAffected
			}
			row.Consumed = true
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

func (m *memCodes) latest(destination string) *domain.VerificationCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Destination == destination {
			return m.rows[i]
		}
	}
	return nil
}

func (m *memCodes) backdate(id uuid.UUID, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			row.ExpiresAt = expiresAt
		}
	}
}

type memAccounts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: make(map[uuid.UUID]*domain.Account)}
}

func (m *memAccounts) Create(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == account.Email {
			return domain.ErrDuplicateEntry
		}
	}
	cp := *account
	m.rows[account.ID] = &cp
	return nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == email {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccounts) GetOneByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memAccounts) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	row.PasswordHash = passwordHash
	return nil
}

func (m *memAccounts) SetContactVerified(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	row.ContactVerified = true
	return nil
}

func (m *memAccounts) UpdateContact(_ context.Context, id uuid.UUID, contact string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return domain.ErrNoRowsAffected
	}
	row.Contact = &contact
	row.ContactVerified = true
	return nil
}

func (m *memAccounts) CountByContact(_ context.Context, contact string, excludeID *uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for id, row := range m.rows {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if row.Contact != nil && *row.Contact == contact {
			count++
		}
	}
	return count, nil
}

type memSessions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.RefreshSession
}

func newMemSessions() *memSessions {
	return &memSessions{rows: make(map[uuid.UUID]*domain.RefreshSession)}
}

func (m *memSessions) Create(_ context.Context, session *domain.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.rows[session.RefreshToken] = &cp
	return nil
}

func (m *memSessions) GetByToken(_ context.Context, token uuid.UUID) (*domain.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memSessions) DeleteByToken(_ context.Context, token uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, token)
	return nil
}

type memLoginEvents struct {
	mu     sync.Mutex
	events []*domain.LoginEvent
}

func (m *memLoginEvents) Create(_ context.Context, event *domain.LoginEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

// stubGenerator hands out a scripted sequence of codes.
type stubGenerator struct {
	mu    sync.Mutex
	codes []string
}

func (g *stubGenerator) RandomCode(int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return "000000"
	}
	code := g.codes[0]
	if len(g.codes) > 1 {
		g.codes = g.codes[1:]
	}
	return code
}

type sentCode struct {
	destination string
	code        string
}

type stubSender struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (s *stubSender) Send(_ context.Context, destination string, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentCode{destination: destination, code: code})
	return nil
}

type stubThrottle struct {
	allow bool
}

func (t *stubThrottle) Allow(context.Context, string) (bool, error) {
	return t.allow, nil
}

// stubHasher avoids argon2 work in orchestration tests.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Verify(hash string, password string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type stubTokenManager struct{}

func (stubTokenManager) NewJWT(accountID uuid.UUID) (string, time.Duration, error) {
	return "jwt-" + accountID.String(), time.Minute, nil
}

func (stubTokenManager) Parse(accessToken string) (string, error) {
	if len(accessToken) <= 4 {
		return "", errors.New("bad token")
	}
	return accessToken[4:], nil
}

func (stubTokenManager) NewRefreshToken() (uuid.UUID, time.Duration, error) {
	return uuid.Must(uuid.NewV7()), time.Hour, nil
}
