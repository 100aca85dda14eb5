package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields read from a bearer token. They are decoded without
// verifying the signature and must never be used for authorization; the
// backend re-checks the token on every request.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// ParseClaims decodes token without verifying it.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithJSONNumber()).ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case string:
		c.Subject = sub
	case json.Number:
		c.Subject = sub.String()
	case nil:
		return Claims{}, fmt.Errorf("parse token: missing sub claim")
	default:
		c.Subject = fmt.Sprint(sub)
	}
	c.Name, _ = mc["name"].(string)
	c.Email, _ = mc["email"].(string)
	c.Role, _ = mc["role"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// Subject returns the token's sub claim, unverified.
func Subject(token string) (string, error) {
	c, err := ParseClaims(token)
	if err != nil {
		return "", err
	}
	return c.Subject, nil
}

// UserID returns the numeric user id carried in sub, or 0 when sub is not
// a number.
func (c Claims) UserID() int {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0
	}
	return id
}

// Expired reports whether the token's exp is in the past. Tokens without
// exp never expire locally.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
