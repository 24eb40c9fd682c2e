// Package crypto issues and verifies the bearer tokens that gate catalog
// writes.
package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identifies the user a token was issued to through Subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Token is what login and registration hand back to clients.
type Token struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// GenerateToken signs an HS256 token for userName valid for ttl.
func GenerateToken(secret, userName string, ttl time.Duration) (Token, error) {
	if secret == "" {
		return Token{}, errors.New("jwt secret is empty")
	}
	now := time.Now().UTC()
	expiration := now.Add(ttl)

	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Token: tokenStr, Expiration: expiration.Truncate(time.Second)}, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
