package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenDataKey = "token_data"

var ErrNoSession = errors.New("no session")

type TokenData struct {
	Sub   string
	Email string
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseBearer validates an "Authorization: Bearer <jwt>" header value
// signed with secret (HS256).
func ParseBearer(header, secret string) (*TokenData, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if raw == "" {
		return nil, ErrNoSession
	}

	tok, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || c.Subject == "" {
		return nil, ErrNoSession
	}
	return &TokenData{Sub: c.Subject, Email: c.Email}, nil
}

// MakeToken signs a session token that ParseBearer accepts with the same secret.
func MakeToken(sub, email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func SetTokenDataCtx(c echo.Context, data *TokenData) {
	c.Set(tokenDataKey, data)
}

// ParseTokenDataCtx returns the session attached by the auth middleware.
func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenDataKey).(*TokenData)
	if !ok || data == nil {
		return nil, ErrNoSession
	}
	return data, nil
}

// SessionSub is the caller's subject or "" when the request has no session.
func SessionSub(c echo.Context) string {
	data, err := ParseTokenDataCtx(c)
	if err != nil {
		return ""
	}
	return data.Sub
}
