package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumiplay/studio/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "correct-horse",
	}
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc := NewService(testConfig())

	token, err := svc.Login("admin", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not validate: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "admin" {
		t.Errorf("sub claim = %v, want admin", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Errorf("role claim = %v, want admin", claims["role"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(testConfig())

	cases := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"someone", "correct-horse"},
		{"", ""},
	}
	for _, c := range cases {
		if _, err := svc.Login(c.user, c.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q, %q): expected ErrInvalidCredentials, got %v", c.user, c.pass, err)
		}
	}
}
