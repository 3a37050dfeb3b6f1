// Package auth is the authentication collaborator: email/password sign-in
// backed by bcrypt hashes and short-lived JWT session tokens. The gate is
// currently bypassed in the deployed console, so the zero configuration
// (disabled) treats every caller as authenticated.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid email or password")

const defaultTokenTTL = 24 * time.Hour

// Claims are the session token claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator answers the single question the console asks: is the current
// operator signed in. When disabled it always answers yes.
type Authenticator struct {
	enabled bool
	secret  []byte
	ttl     time.Duration
	users   map[string]string // email -> bcrypt hash
	token   string
	now     func() time.Time
}

// New builds an authenticator. users maps emails to bcrypt hashes; secret
// signs session tokens. When enabled is false, sign-in is not required.
func New(enabled bool, secret string, ttl time.Duration, users map[string]string) *Authenticator {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Authenticator{
		enabled: enabled,
		secret:  []byte(secret),
		ttl:     ttl,
		users:   users,
		now:     time.Now,
	}
}

// Enabled reports whether the gate is active.
func (a *Authenticator) Enabled() bool { return a.enabled }

// SignIn verifies the password and establishes a session. Backend failures
// pass through verbatim; a wrong password is ErrInvalidCredentials.
func (a *Authenticator) SignIn(email, password string) error {
	hash, ok := a.users[email]
	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	now := a.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "herbadmin",
			Subject:   email,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}
	a.token = token
	return nil
}

// SignOut drops the session.
func (a *Authenticator) SignOut() { a.token = "" }

// IsAuthenticated reports whether the console may be used. With the gate
// disabled this is always true; otherwise the session token must parse and
// not be expired.
func (a *Authenticator) IsAuthenticated() bool {
	if !a.enabled {
		return true
	}
	if a.token == "" {
		return false
	}
	_, err := a.ValidateToken(a.token)
	return err == nil
}

// Email returns the signed-in operator's email, empty when not signed in.
func (a *Authenticator) Email() string {
	if a.token == "" {
		return ""
	}
	claims, err := a.ValidateToken(a.token)
	if err != nil {
		return ""
	}
	return claims.Email
}

// ValidateToken parses and verifies a session token.
func (a *Authenticator) ValidateToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return a.now() }))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// HashPassword produces a bcrypt hash suitable for the users map in the
// config file.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
