package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenIssuer = "noteshare"

type TokenData struct {
	Sub string
	ID  string
	Exp int64
}

// TokenIssuer signs and validates the HS256 bearer tokens handed to users.
// Revocation is not its concern: callers compare TokenData.ID against the
// token currently stored for the user.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(username, tokenID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  username,
		ID:       tokenID,
		Issuer:   DefaultTokenIssuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func (t *TokenIssuer) Validate(tokenString string) (*TokenData, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(sanitizeToken(tokenString), &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(DefaultTokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token is missing subject or id")
	}

	var exp int64
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Unix()
	}
	return &TokenData{Sub: claims.Subject, ID: claims.ID, Exp: exp}, nil
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
