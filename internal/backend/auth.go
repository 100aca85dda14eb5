package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Credentials is the auth response. Raw keeps the object exactly as the
// server sent it.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	Raw json.RawMessage `json:"-"`
}

// ParseCredentials decodes a stored auth response.
func ParseCredentials(raw []byte) (*Credentials, error) {
	var c Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if c.AccessToken == "" {
		return nil, fmt.Errorf("decode credentials: missing access_token")
	}
	c.Raw = append(json.RawMessage(nil), raw...)
	return &c, nil
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhoneNum string `json:"phone_num"`
	Password string `json:"password"`
}

// Authenticate exchanges a username and password for a bearer token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*Credentials, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/",
		form:   url.Values{"username": {username}, "password": {password}},
	}, &raw)
	if err != nil {
		return nil, err
	}
	return ParseCredentials(raw)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/user/register",
		json:   reg,
	}, nil)
}

// Logout revokes token on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/logout",
		token:  token,
	}, nil)
}
