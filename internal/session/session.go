// Package session holds the client-side authentication state of one visitor.
//
// A Store is an explicit object: it is created per visitor and handed to the
// route guard and to the API client wrapper. Nothing in this package is global.
package session

import "time"

// LoginPath is where Logout sends the visitor.
const LoginPath = "/login"

// User is the identity decoded from the claims of an access token.
// It is never persisted on its own; every refresh rebuilds it.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`

	// IsEmailVerified is nil when the token did not carry the claim.
	IsEmailVerified *bool      `json:"isEmailVerified,omitempty"`
	IsPremium       bool       `json:"isPremium"`
	PremiumEndsAt   *time.Time `json:"premiumEndsAt,omitempty"`
}

// EmailUnverified reports whether the user explicitly has an unverified email.
// A missing claim is not treated as unverified.
func (u *User) EmailUnverified() bool {
	return u != nil && u.IsEmailVerified != nil && !*u.IsEmailVerified
}

// Session is a point in time copy of a Store.
type Session struct {
	AccessToken     string `json:"accessToken,omitempty"`
	User            *User  `json:"user,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// Navigator receives the navigation requested by Logout.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Bool returns a pointer to b, handy for IsEmailVerified.
func Bool(b bool) *bool {
	return &b
}
