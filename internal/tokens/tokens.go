// Package tokens issues and verifies the bearer tokens that identify callers
// to the HTTP API. The subject claim carries the caller's ledger address;
// role checks stay in the engine, so a token only proves who is calling.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"relieffund/internal/ledger"
)

// ErrInvalidToken means the token failed signature or claim validation.
var ErrInvalidToken = errors.New("invalid token")

// Authenticator signs and verifies HS256 tokens with a shared key.
type Authenticator struct {
	key []byte
}

func New(key []byte) *Authenticator {
	return &Authenticator{key: key}
}

// Issue mints a token for addr valid for ttl.
func (a *Authenticator) Issue(addr ledger.Address, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(addr),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token and returns the caller address from its subject.
func (a *Authenticator) Verify(tokenString string) (ledger.Address, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	addr, err := ledger.ParseAddress(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: subject is not an address: %w", ErrInvalidToken, err)
	}
	return addr, nil
}
