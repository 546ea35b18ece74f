package utils // package utils provides helpers for credential creation and verification

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT together with its expiry. The token
// carries the tenant identity (sub), email and role; there is no refresh
// flow, so once Exp passes the client must log in again.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// Claims is the decoded content of a verified access token. Every protected
// request is scoped by the UserID extracted here; handlers never accept a
// tenant id from the request body or path.
type Claims struct {
	UserID uint64
	Email  string
	Role   string
}

// ErrInvalidToken is returned by ParseAccessToken for any token that fails
// signature verification, has expired, or does not carry the expected
// claims. Callers translate it to HTTP 403.
var ErrInvalidToken = errors.New("invalid or expired token")

// NewAccessToken signs an HS256 JWT for a user. Claims: sub (user id),
// email, role, exp (now + ttlHours) and iat.
func NewAccessToken(secret string, userID uint64, email, role string, ttlHours int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a raw token and
// extracts its claims. The signing method is pinned to HMAC so a token
// signed with "none" or an asymmetric scheme is rejected.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	switch v := mc["sub"].(type) {
	case float64:
		c.UserID = uint64(v)
	default:
		return Claims{}, ErrInvalidToken
	}
	if c.Email, ok = mc["email"].(string); !ok {
		return Claims{}, ErrInvalidToken
	}
	if c.Role, ok = mc["role"].(string); !ok {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}
