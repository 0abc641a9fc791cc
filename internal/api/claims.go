package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/recipebook/recipebook-web/internal/session"
)

// Claims are the display claims carried by an access token.
type Claims struct {
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	IsEmailVerified *bool           `json:"isEmailVerified,omitempty"`
	IsPremium       bool            `json:"isPremium"`
	PremiumEndsAt   json.RawMessage `json:"premiumEndsAt,omitempty"`

	jwt.RegisteredClaims
}

// DecodeClaims reads the claims of token without verifying its signature.
// The frontend uses them for display and navigation only.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "failed to decode access token")
	}

	return claims, nil
}

// DecodeUser decodes token and builds the session user from its claims.
func DecodeUser(token string) (*session.User, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return nil, err
	}

	return claims.User(), nil
}

// User maps the claims onto a session user.
func (c *Claims) User() *session.User {
	return &session.User{
		ID:              c.Subject,
		Email:           c.Email,
		Username:        c.Username,
		IsEmailVerified: c.IsEmailVerified,
		IsPremium:       c.IsPremium,
		PremiumEndsAt:   parseTime(c.PremiumEndsAt),
	}
}

// parseTime accepts an RFC 3339 string or unix seconds. Anything else,
// including null, yields nil.
func parseTime(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}

		return &t
	}

	secs, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return nil
	}

	t := time.Unix(int64(secs), 0).UTC()

	return &t
}
