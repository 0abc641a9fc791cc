package session

import (
	"context"
	"sync"
)

// Store owns a visitor's Session. All mutations go through it.
type Store struct {
	mu        sync.Mutex
	session   Session
	navigator Navigator

	// seq is the number of the latest refresh attempt or explicit mutation.
	seq    uint64
	cancel context.CancelFunc
}

// Option configures a Store.
type Option func(*Store)

// WithNavigator sets the navigator used by Logout.
func WithNavigator(n Navigator) Option {
	return func(s *Store) {
		s.navigator = n
	}
}

// WithSession seeds the store, e.g. when a visitor is restored from storage.
// An empty token yields an unauthenticated store.
func WithSession(sess Session) Option {
	return func(s *Store) {
		if sess.AccessToken == "" {
			return
		}

		s.session = Session{
			AccessToken:     sess.AccessToken,
			User:            cloneUser(sess.User),
			IsAuthenticated: true,
		}
	}
}

// New returns an empty, unauthenticated store.
func New(opts ...Option) *Store {
	s := &Store{}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetAuth overwrites token and user and marks the session authenticated.
// The token is not inspected.
func (s *Store) SetAuth(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.setLocked(token, user)
}

// Logout clears the session and asks the navigator to go to the login page.
func (s *Store) Logout() {
	s.mu.Lock()
	s.supersedeLocked()
	s.clearLocked()
	nav := s.navigator
	s.mu.Unlock()

	if nav != nil {
		nav.Navigate(LoginPath)
	}
}

// Clear resets the session like Logout without requesting a navigation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.clearLocked()
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.session
	out.User = cloneUser(s.session.User)

	return out
}

// AccessToken returns the current token, empty when unauthenticated.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.AccessToken
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.IsAuthenticated
}

func (s *Store) setLocked(token string, user *User) {
	s.session = Session{
		AccessToken:     token,
		User:            cloneUser(user),
		IsAuthenticated: true,
	}
}

func (s *Store) clearLocked() {
	s.session = Session{}
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}

	c := *u

	if u.IsEmailVerified != nil {
		c.IsEmailVerified = Bool(*u.IsEmailVerified)
	}

	if u.PremiumEndsAt != nil {
		t := *u.PremiumEndsAt
		c.PremiumEndsAt = &t
	}

	return &c
}
