package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity extracted from a verified token.
type Principal struct {
	ID       string
	Username string
	Role     string
}

// NewToken signs an HS256 JWT for a staff account. The role claim carries the
// person's work type and drives route-level permission checks.
func NewToken(secret string, p Principal, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      p.ID,
		"username": p.Username,
		"role":     p.Role,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a signed token and returns its principal.
func VerifyToken(secret, raw string) (Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("invalid token: %w", err)
	}
	if !tok.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, fmt.Errorf("invalid token claims")
	}

	p := Principal{}
	if sub, ok := claims["sub"].(string); ok {
		p.ID = sub
	}
	if username, ok := claims["username"].(string); ok {
		p.Username = username
	}
	if role, ok := claims["role"].(string); ok {
		p.Role = role
	}
	if p.ID == "" {
		return Principal{}, fmt.Errorf("token missing subject claim")
	}

	return p, nil
}
