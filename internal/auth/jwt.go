package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"analytics-dashboard/internal/domain"
)

// Claims carried by a dashboard access token.
type Claims struct {
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier issues and verifies HS256 access tokens. It implements
// domain.TokenVerifier.
type JWTVerifier struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTVerifier(secret string, ttl time.Duration) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed access token for the given user.
func (v *JWTVerifier) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify parses and validates a token, returning the principal's identity.
// Any failure (expired, malformed, unsigned, wrong algorithm) rejects the
// credential as a whole.
func (v *JWTVerifier) Verify(credential string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{SubjectID: claims.Subject, Role: claims.Role}, nil
}
