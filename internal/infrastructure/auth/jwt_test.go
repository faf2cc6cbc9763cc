package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/ledgerlens/internal/infrastructure/auth"
)

func TestJWTManagerGenerateAndVerify(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("super-secret", time.Minute)
	p := auth.Principal{Name: "reporting", Role: auth.RoleOperator}

	token, err := manager.Generate(p)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.Principal() != p {
		t.Fatalf("expected claims to match principal, got %+v", claims.Principal())
	}
}

func TestJWTManagerVerifyErrors(t *testing.T) {
	t.Parallel()

	manager := auth.NewJWTManager("secret", time.Minute)

	sign := func(claims auth.Claims, secret string) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return token
	}

	expired := sign(auth.Claims{
		Role: auth.RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "expired",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}, "secret")
	unknownRole := sign(auth.Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	}, "secret")

	tests := []struct {
		name    string
		manager *auth.JWTManager
		token   string
		want    error
	}{
		{"expired", manager, expired, auth.ErrExpiredToken},
		{"wrong secret", auth.NewJWTManager("other-secret", time.Minute), expired, auth.ErrInvalidToken},
		{"unknown role", manager, unknownRole, auth.ErrInvalidToken},
		{"malformed", manager, "not-a-token", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.manager.Verify(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRoleAllows(t *testing.T) {
	if !auth.RoleOperator.Allows(auth.RoleViewer) || !auth.RoleOperator.Allows(auth.RoleOperator) {
		t.Fatalf("operator must be allowed everything")
	}
	if auth.RoleViewer.Allows(auth.RoleOperator) {
		t.Fatalf("viewer must not be allowed operator actions")
	}
	if auth.Role("").Allows(auth.RoleViewer) {
		t.Fatalf("empty role must not be allowed")
	}
}

func TestKeyRing(t *testing.T) {
	ring, err := auth.ParseKeyRing([]string{"ops:operator:k-ops", " bi:viewer:k:with:colons ", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ring.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", ring.Len())
	}

	p, err := ring.Authenticate("k:with:colons")
	if err != nil || p.Name != "bi" || p.Role != auth.RoleViewer {
		t.Fatalf("unexpected principal %+v, err %v", p, err)
	}
	if _, err := ring.Authenticate("nope"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	for _, bad := range [][]string{{"ops:operator"}, {"ops:root:k"}, {"a:viewer:1", "a:viewer:2"}} {
		if _, err := auth.ParseKeyRing(bad); err == nil {
			t.Errorf("expected %v rejected", bad)
		}
	}
}
