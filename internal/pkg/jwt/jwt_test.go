package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Secret: "test-secret-please-rotate",
		Issuer: "dabbatrack",
		TTL:    time.Hour,
	}
}

func TestGenerateAndVerify(t *testing.T) {
	gen := NewGenerator(testConfig())
	ver := NewVerifier(testConfig())

	token, jti, err := gen.Generate("user-1", "ADMIN", "Dabba Boss", "boss@dabbatrack.in")
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := ver.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.True(t, claims.IsAdmin())
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "someone-else"
	gen := NewGenerator(cfg)

	token, _, err := gen.Generate("user-1", "DISPATCH", "", "")
	require.NoError(t, err)

	_, err = NewVerifier(testConfig()).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsTampered(t *testing.T) {
	gen := NewGenerator(testConfig())
	token, _, err := gen.Generate("user-1", "DISPATCH", "", "")
	require.NoError(t, err)

	_, err = NewVerifier(testConfig()).Verify(token + "x")
	assert.Error(t, err)
}
