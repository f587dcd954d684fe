package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"foodgram-backend/services/errs"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates HS256 tokens whose subject is a user id.
// The version claim ties a token to the user's token_version; bumping the
// column revokes every token issued before.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

type claims struct {
	Version int `json:"ver"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("auth.secret is required but was empty")
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

func (m *TokenManager) Issue(userID uint, version int) (string, error) {
	now := time.Now()
	tokenClaims := claims{
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse returns the user id and version carried by token. Every failure
// matches errs.ErrAuth.
func (m *TokenManager) Parse(token string) (uint, int, error) {
	tokenClaims := &claims{}
	parsed, err := jwt.ParseWithClaims(token, tokenClaims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, 0, fmt.Errorf("%w: invalid token", errs.ErrAuth)
	}
	userID, err := strconv.ParseUint(tokenClaims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, 0, fmt.Errorf("%w: invalid token subject", errs.ErrAuth)
	}
	return uint(userID), tokenClaims.Version, nil
}
