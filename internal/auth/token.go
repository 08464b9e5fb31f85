package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and resolves stateless session tokens. The signed token
// is the sole session artifact: nothing is stored server-side, and the
// identity embedded at issuance is what every later Resolve returns.
type TokenIssuer struct {
	secret []byte
	maxAge time.Duration

	// NowFunc overrides the time source in tests.
	NowFunc func() time.Time
}

// NewTokenIssuer constructs an issuer signing with the process-wide secret.
func NewTokenIssuer(secret string, maxAge time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth: session secret must not be empty")
	}
	if maxAge <= 0 {
		return nil, errors.New("auth: session max age must be positive")
	}
	return &TokenIssuer{secret: []byte(secret), maxAge: maxAge}, nil
}

// Issue signs a session token carrying the identity, valid for the configured
// max age. Returns the token and its expiry.
func (t *TokenIssuer) Issue(identity Identity) (string, time.Time, error) {
	if identity.IsZero() {
		return "", time.Time{}, errors.New("auth: identity must not be empty")
	}

	now := t.now()
	expiresAt := now.Add(t.maxAge)

	claims := sessionClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Resolve verifies the token's signature and expiry and extracts the embedded
// identity. An invalid or expired token yields no identity rather than an
// error: callers treat absence as unauthenticated.
func (t *TokenIssuer) Resolve(raw string) (Identity, bool) {
	if raw == "" {
		return Identity{}, false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(raw, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return Identity{}, false
	}

	return Identity{ID: claims.Subject, Email: claims.Email}, true
}

func (t *TokenIssuer) now() time.Time {
	if t.NowFunc != nil {
		return t.NowFunc()
	}
	return time.Now().UTC()
}
