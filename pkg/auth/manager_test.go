package auth

import (
	"testing"
	"time"

	"github.com/pantrykeep/backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		SigningKey:      "test-signing-key",
	}
}

func TestManager_NewJWTAndParse(t *testing.T) {
	manager, err := NewManager(testConfig())
	require.NoError(t, err)

	accountID := uuid.Must(uuid.NewV7())

	token, ttl, err := manager.NewJWT(accountID)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	sub, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), sub)
}

func TestManager_ParseRejectsForeignKey(t *testing.T) {
	manager, err := NewManager(testConfig())
	require.NoError(t, err)

	other, err := NewManager(config.JWTConfig{
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		SigningKey:      "another-key",
	})
	require.NoError(t, err)

	token, _, err := other.NewJWT(uuid.Must(uuid.NewV7()))
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestNewManager_Validation(t *testing.T) {
	_, err := NewManager(config.JWTConfig{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewManager(config.JWTConfig{SigningKey: "k", RefreshTokenTTL: time.Hour})
	assert.Error(t, err)
}
