package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authentication errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Role gates what a caller may do. Viewers read reports, operators may also
// send email and schedule events.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
)

// Allows reports whether r grants at least min.
func (r Role) Allows(min Role) bool {
	switch min {
	case RoleOperator:
		return r == RoleOperator
	case RoleViewer:
		return r == RoleViewer || r == RoleOperator
	default:
		return false
	}
}

// Principal is an authenticated API client.
type Principal struct {
	Name string
	Role Role
}

// Claims represents the JWT claims. The subject is the principal name.
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal returns the client the claims were issued to.
func (c *Claims) Principal() Principal {
	return Principal{Name: c.Subject, Role: c.Role}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate issues a token for p.
func (m *JWTManager) Generate(p Principal) (string, error) {
	now := m.now()
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Name,
			Issuer:    "ledgerlens",
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// ExpiresIn is the lifetime of issued tokens.
func (m *JWTManager) ExpiresIn() time.Duration { return m.tokenDuration }

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Role != RoleViewer && claims.Role != RoleOperator {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
