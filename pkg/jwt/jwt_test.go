package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, time.Hour, service.tokenExpiry)
}

func TestGenerateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	agentID := uuid.New().String()

	token, err := service.GenerateToken(agentID, "counter.colombo", RoleAgent)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validate the generated token
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, agentID, claims.SubjectID)
	assert.Equal(t, "counter.colombo", claims.Username)
	assert.Equal(t, RoleAgent, claims.Role)
}

func TestValidateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	userID := uuid.New().String()

	// Generate valid token
	token, err := service.GenerateToken(userID, "", RoleUser)
	require.NoError(t, err)

	// Test valid token
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.SubjectID)
	assert.Empty(t, claims.Username)
	assert.Equal(t, RoleUser, claims.Role)

	// Test invalid token
	_, err = service.ValidateToken("invalid.token.here")
	assert.Error(t, err)

	// Test token with wrong secret
	wrongService := NewService("wrong-secret", time.Hour)
	_, err = wrongService.ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	// Create service with very short expiry
	service := NewService(testSecret, time.Millisecond)

	token, err := service.GenerateToken(uuid.New().String(), "counter.kandy", RoleAgent)
	require.NoError(t, err)

	// Wait for token to expire
	time.Sleep(10 * time.Millisecond)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractClaims(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	agentID := uuid.New().String()

	token, err := service.GenerateToken(agentID, "counter.galle", RoleAgent)
	require.NoError(t, err)

	claims, err := service.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, agentID, claims.SubjectID)
	assert.Equal(t, "counter.galle", claims.Username)
	assert.Equal(t, RoleAgent, claims.Role)
}

func TestGetTokenExpiry(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateToken(uuid.New().String(), "counter.colombo", RoleAgent)
	require.NoError(t, err)

	expiry, err := service.GetTokenExpiry(token)
	require.NoError(t, err)

	// Check expiry is approximately 1 hour from now
	expectedExpiry := time.Now().Add(time.Hour)
	assert.WithinDuration(t, expectedExpiry, expiry, 5*time.Second)

	// Test invalid token
	_, err = service.GetTokenExpiry("invalid.token.here")
	assert.Error(t, err)
}

func TestTokenSigningMethod(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	// Verify that our service generates HS256 tokens
	token, err := service.GenerateToken(uuid.New().String(), "counter.colombo", RoleAgent)
	require.NoError(t, err)

	// Parse to check method
	parsedToken, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	_, ok := parsedToken.Method.(*jwt.SigningMethodHMAC)
	assert.True(t, ok, "Token should use HMAC signing method")
}

func TestTokenIssuerAndSubject(t *testing.T) {
	service := NewService(testSecret, time.Hour)
	agentID := uuid.New().String()

	token, err := service.GenerateToken(agentID, "counter.colombo", RoleAgent)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "suhani-travels", claims.Issuer)
	assert.Equal(t, agentID, claims.Subject)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	done := make(chan bool)
	errors := make(chan error, 100)

	// Generate 100 tokens concurrently
	for i := 0; i < 100; i++ {
		go func() {
			token, err := service.GenerateToken(uuid.New().String(), "counter.colombo", RoleAgent)
			if err != nil {
				errors <- err
				done <- true
				return
			}

			_, err = service.ValidateToken(token)
			if err != nil {
				errors <- err
			}
			done <- true
		}()
	}

	// Wait for all goroutines
	for i := 0; i < 100; i++ {
		<-done
	}

	close(errors)
	assert.Empty(t, errors)
}
