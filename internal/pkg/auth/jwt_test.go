package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uasphere/uas-backend/internal/app/models"
)

func newTestService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:      7,
		LoginID: "jdoe",
		Role:    models.RoleManager,
	}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())

	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)
	assert.Equal(t, int64(3600), expiresIn)
	assert.Equal(t, int64(86400), refreshExpiresIn)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(accessToken)

	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "jdoe", claims.LoginID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(accessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	_, err = other.ValidateAndExtractClaims(accessToken)

	assert.Error(t, err)
}

func TestValidateAndExtractClaims_EmptyToken(t *testing.T) {
	svc := newTestService(time.Hour)

	_, err := svc.ValidateAndExtractClaims("")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService(time.Hour)

	_, err := svc.ValidateToken("not.a.token")

	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, CheckPassword(hash, "Secret123!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
