package commerce

import (
	"context"
	"net/http"
)

// Credentials are the inputs to Signin.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the inputs to Signup. RePassword must equal Password;
// the upstream validates this as well.
type Registration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	RePassword string `json:"rePassword"`
	Phone      string `json:"phone"`
}

// AuthResult carries the opaque session token issued by the commerce API and
// basic profile data.
type AuthResult struct {
	Token string
	Name  string
	Email string
}

// Signin exchanges credentials for a session token. The auth endpoints mark
// success via "message" rather than "status".
func (c *Client) Signin(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", "", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Message != statusSuccess {
		return nil, c.envelopeError("signin", resp.Message)
	}
	return &AuthResult{Token: resp.Token, Name: resp.User.Name, Email: resp.User.Email}, nil
}

// Signup registers a new account and returns a session token.
func (c *Client) Signup(ctx context.Context, reg Registration) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", "", reg, &resp); err != nil {
		return nil, err
	}
	if resp.Message != statusSuccess {
		return nil, c.envelopeError("signup", resp.Message)
	}
	return &AuthResult{Token: resp.Token, Name: resp.User.Name, Email: resp.User.Email}, nil
}
