package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// TokenType tags a JWT as either a short-lived access token or a long-lived
// refresh token.  The tag is embedded in the claims so one kind can never be
// replayed as the other.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// ErrInvalidToken is returned by VerifyToken for every verification failure:
// bad signature, expiry, wrong type tag, malformed input.  Callers cannot
// distinguish the cases, which is intentional.
var ErrInvalidToken = errors.New("invalid token")

// IssuedToken is a signed JWT along with its expiry.
type IssuedToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// IssueToken builds and signs an HS256 JWT binding a single user id and a
// type tag.  The claims are standard: subject (sub), type (typ), expiration
// (exp) and issued at (iat).
func IssueToken(secret string, tt TokenType, userID uint64, ttl time.Duration) (IssuedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": string(tt),
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, Exp: exp}, nil
}

// VerifyToken checks the signature, expiry and type tag of a token and
// returns the embedded user id together with the token's issued-at time.
// Every failure mode collapses into ErrInvalidToken.
func VerifyToken(secret string, tt TokenType, raw string) (uint64, time.Time, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC before touching claims.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, time.Time{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != string(tt) {
		return 0, time.Time{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, time.Time{}, ErrInvalidToken
	}
	iat := time.Time{}
	if v, ok := claims["iat"].(float64); ok {
		iat = time.Unix(int64(v), 0).UTC()
	}
	return uint64(sub), iat, nil
}
