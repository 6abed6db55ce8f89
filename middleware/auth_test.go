package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateToken(Identity{TenantID: 7, Actor: "jperez", Role: RoleSupervisor}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.TenantID)
	assert.Equal(t, "jperez", claims.Subject)
	assert.Equal(t, RoleSupervisor, claims.Role)
}

func TestValidateTokenRejectsBadSignature(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateToken(Identity{TenantID: 7, Actor: "jperez", Role: RoleOperator}, time.Hour)
	require.NoError(t, err)

	SetJWTSecret("another-secret")
	_, err = ValidateToken(token)
	require.Error(t, err)
}

func TestTenantAuth(t *testing.T) {
	SetJWTSecret("test-secret")

	var got *Identity
	handler := TenantAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentity(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// No header at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token without a tenant.
	badToken, err := GenerateToken(Identity{TenantID: 0, Actor: "jperez", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+badToken)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token injects the identity.
	token, err := GenerateToken(Identity{TenantID: 3, Actor: "jperez", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, uint(3), got.TenantID)
	assert.Equal(t, "jperez", got.Actor)
	assert.Equal(t, RoleAdmin, got.Role)
}

func TestRequireRole(t *testing.T) {
	SetJWTSecret("test-secret")

	gated := RequireRole(RoleSupervisor, RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	handler := TenantAuth(gated)

	call := func(role Role) int {
		token, err := GenerateToken(Identity{TenantID: 1, Actor: "jperez", Role: role}, time.Hour)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, call(RoleOperator))
	assert.Equal(t, http.StatusNoContent, call(RoleSupervisor))
	assert.Equal(t, http.StatusNoContent, call(RoleAdmin))

	// Without TenantAuth in front there is no identity.
	rec := httptest.NewRecorder()
	gated.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
