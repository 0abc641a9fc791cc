package session

import "context"

// Attempt is one silent refresh tagged with its sequence number.
type Attempt struct {
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Seq returns the attempt's sequence number.
func (a *Attempt) Seq() uint64 {
	return a.seq
}

// Context is cancelled when a newer attempt starts or the store is mutated.
func (a *Attempt) Context() context.Context {
	return a.ctx
}

// Done releases the attempt's context.
func (a *Attempt) Done() {
	a.cancel()
}

// BeginRefresh registers a new refresh attempt and cancels the one in flight.
// Only the latest attempt may write its result to the store.
func (s *Store) BeginRefresh(parent context.Context) *Attempt {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.cancel = cancel

	return &Attempt{seq: s.seq, ctx: ctx, cancel: cancel}
}

// CompleteRefresh stores the refreshed credentials if a is still the latest
// attempt. It reports whether the result was applied.
func (s *Store) CompleteRefresh(a *Attempt, token string, user *User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isLatestLocked(a) {
		return false
	}

	s.setLocked(token, user)
	s.cancel = nil

	return true
}

// FailRefresh clears the session if a is still the latest attempt.
// It reports whether the failure was applied.
func (s *Store) FailRefresh(a *Attempt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isLatestLocked(a) {
		return false
	}

	s.clearLocked()
	s.cancel = nil

	return true
}

// Seq returns the latest issued sequence number.
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.seq
}

func (s *Store) isLatestLocked(a *Attempt) bool {
	return a != nil && a.seq == s.seq
}

// supersedeLocked invalidates the attempt in flight, if any.
func (s *Store) supersedeLocked() {
	s.seq++

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
