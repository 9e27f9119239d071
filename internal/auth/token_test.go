package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/workload-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("secret", 5)

	token, exp, err := manager.GenerateToken(Actor{Role: domain.RoleStaff, Identity: "staff@university.edu"})
	require.NoError(t, err)
	require.False(t, exp.IsZero())

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStaff, claims.Role)
	require.Equal(t, "staff@university.edu", claims.Identity)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 5).GenerateToken(Actor{Role: domain.RoleAdministrator})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 5).ParseToken(token)
	require.Error(t, err)
}
