package backend

import (
	"context"
	"net/http"

	"github.com/matheus3301/adminterm/internal/filter"
)

// User is an account as returned by the user endpoints.
type User struct {
	UserID     int     `json:"user_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	PhoneNum   string  `json:"phone_num"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
	ProfilePic *string `json:"profile_pic,omitempty"`
	DateJoined string  `json:"date_joined"`
	LastLogin  string  `json:"last_login"`
}

// Field implements filter.Record. A user is searched by name, falling
// back to email.
func (u User) Field(f filter.Field) (string, bool) {
	if f != filter.Username {
		return "", false
	}
	if u.Name != "" {
		return u.Name, true
	}
	return u.Email, u.Email != ""
}

// Profile returns the authenticated user.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/profile", token: token}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var users []User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/", token: token}, &users); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return users, nil
}
