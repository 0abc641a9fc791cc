package api

import (
	"context"
	"net/http"
	"net/url"
)

// Upstream auth endpoints.
const (
	RefreshPath            = "/auth/refresh"
	LoginPath              = "/auth/login"
	SignupPath             = "/auth/signup"
	LogoutPath             = "/auth/logout"
	ForgotPasswordPath     = "/auth/forgot-password"
	VerifyEmailPath        = "/auth/verify"
	ResendVerificationPath = "/auth/resend-verification"
)

// TokenResponse is what the auth endpoints answer with.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"userId"`
}

// Credentials are posted to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is posted to the signup endpoint.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Refresh exchanges the refresh cookie for a new access token.
// The request has no body and no bearer header.
func (c *Client) Refresh(ctx context.Context) (*TokenResponse, error) {
	return c.tokenCall(ctx, RefreshPath, &Options{Method: http.MethodPost, SkipAuth: true})
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds Credentials) (*TokenResponse, error) {
	return c.tokenCall(ctx, LoginPath, &Options{Method: http.MethodPost, Body: creds, SkipAuth: true})
}

// Signup registers a new account and signs it in.
func (c *Client) Signup(ctx context.Context, reg Registration) (*TokenResponse, error) {
	return c.tokenCall(ctx, SignupPath, &Options{Method: http.MethodPost, Body: reg, SkipAuth: true})
}

// Logout revokes the refresh cookie upstream.
func (c *Client) Logout(ctx context.Context) error {
	return c.Fetch(ctx, LogoutPath, &Options{Method: http.MethodPost}, nil)
}

// ForgotPassword asks the upstream to send a reset mail.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.Fetch(ctx, ForgotPasswordPath, &Options{
		Method:   http.MethodPost,
		Body:     map[string]string{"email": email},
		SkipAuth: true,
	}, nil)
}

// VerifyEmail confirms an email address with the token from the mail link.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.Fetch(ctx, VerifyEmailPath, &Options{Query: url.Values{"token": {token}}}, nil)
}

// ResendVerification asks for a new confirmation mail for the signed in user.
func (c *Client) ResendVerification(ctx context.Context) error {
	return c.Fetch(ctx, ResendVerificationPath, &Options{Method: http.MethodPost}, nil)
}

func (c *Client) tokenCall(ctx context.Context, endpoint string, opts *Options) (*TokenResponse, error) {
	var res TokenResponse

	if err := c.Fetch(ctx, endpoint, opts, &res); err != nil {
		return nil, err
	}

	if res.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	return &res, nil
}
