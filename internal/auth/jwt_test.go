package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-dashboard/internal/domain"
)

func testUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:    "user-1",
		Email: "viewer@example.com",
		Role:  role,
	}
}

func TestIssueAndVerify(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)

	token, err := v.Issue(testUser(domain.RoleAdmin))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.SubjectID)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewJWTVerifier("test-secret", -time.Minute)

	token, err := v.Issue(testUser(domain.RoleViewer))
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewJWTVerifier("secret-a", time.Hour)
	verifier := NewJWTVerifier("secret-b", time.Hour)

	token, err := issuer.Issue(testUser(domain.RoleViewer))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyMalformedToken(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)

	for _, credential := range []string{"", "not-a-token", "a.b.c"} {
		_, err := v.Verify(credential)
		assert.Error(t, err, "credential %q should be rejected", credential)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	v := NewJWTVerifier("test-secret", time.Hour)

	token, err := v.Issue(&domain.User{ID: "user-2", Role: domain.Role("superuser")})
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
