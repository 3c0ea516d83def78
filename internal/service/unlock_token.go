package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UnlockTokens issues the short-lived marker that lets the redirect right
// after a successful password check skip the always-require-password demotion.
// A signed token bound to (session, notebook) replaces the old bare
// verified=1 query flag, which anyone could forge.
type UnlockTokens struct {
	secret []byte
	ttl    time.Duration
}

type unlockClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

func NewUnlockTokens(secret string, ttl time.Duration) *UnlockTokens {
	return &UnlockTokens{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (u *UnlockTokens) Issue(sessionID, slug string) (string, error) {
	now := time.Now()
	claims := unlockClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   slug,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.secret)
	if err != nil {
		return "", fmt.Errorf("sign unlock token: %w", err)
	}
	return signed, nil
}

// Validate reports whether tokenStr is a live unlock token for exactly this
// session and notebook. Any parse, signature or claim mismatch means no
// marker; there is no error to report to the user.
func (u *UnlockTokens) Validate(tokenStr, sessionID, slug string) bool {
	if tokenStr == "" {
		return false
	}
	var claims unlockClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	return claims.SessionID == sessionID && claims.Subject == slug
}
