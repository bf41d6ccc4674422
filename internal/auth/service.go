// Package auth implements admin authentication for the CMS dashboard.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumiplay/studio/internal/config"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned when the username/password pair does not
// match the configured admin account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service contains the business logic for admin login.
type Service struct {
	cfg *config.Config
}

// NewService creates a new auth Service.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Login checks the credentials against the configured admin account and
// issues a signed token. Comparison is constant-time on both fields.
func (s *Service) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(username)
}

// issueToken creates an HS256 JWT with the admin role claim.
func (s *Service) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  username,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
