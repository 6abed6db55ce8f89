package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

type Role string

const (
	RoleOperator   Role = "OPERATOR"
	RoleSupervisor Role = "SUPERVISOR"
	RoleAdmin      Role = "ADMIN"
)

// Identity is the authenticated caller: which tenant's data it may
// touch and who gets stamped on audit entries. Issuing these tokens is
// the identity provider's job, not this service's.
type Identity struct {
	TenantID uint
	Actor    string
	Role     Role
}

type Claims struct {
	TenantID uint `json:"tenant_id"`
	Role     Role `json:"role"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateToken(identity Identity, expiration time.Duration) (string, error) {
	claims := &Claims{
		TenantID: identity.TenantID,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Actor,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// TenantAuth validates the bearer token and injects the caller's
// identity. Requests without a valid tenant are rejected before any
// storage access.
func TenantAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenString string
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
			return
		}

		claims, err := ValidateToken(tokenString)
		if err != nil || claims.TenantID == 0 {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}

		identity := &Identity{
			TenantID: claims.TenantID,
			Actor:    claims.Subject,
			Role:     claims.Role,
		}
		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		})
	}
}

func GetIdentity(ctx context.Context) *Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
