package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = 30 * time.Minute

var (
	// ErrTokenMalformed covers undecodable tokens and tokens missing a subject or expiry.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignature covers signature mismatches and unexpected signing methods.
	ErrTokenSignature = errors.New("token signature invalid")
	// ErrTokenExpired is returned once the verification time is past the token's expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the signed payload of a bearer token. Subject carries the user's public id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens bound to a user's public id.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}, nil
}

// Issue signs a token for subject valid from now until now+TokenTTL.
func (s *TokenService) Issue(subject string, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is empty")
	}
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature and expiry as of now and returns the token subject.
// A token is valid up to and including its expiry instant.
// Failures wrap exactly one of ErrTokenMalformed, ErrTokenSignature or ErrTokenExpired.
func (s *TokenService) Verify(token string, now time.Time) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// the parser rejects at now == exp; stepping back 1ns keeps the token valid through its expiry instant
		jwt.WithTimeFunc(func() time.Time { return now.Add(-time.Nanosecond) }),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", fmt.Errorf("%w: %w", ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return "", fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	return claims.Subject, nil
}
