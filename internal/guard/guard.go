// Package guard decides what happens to a navigation.
//
// Decide is a pure function over an Input. Guard wraps it with the one side
// effect a navigation may need: a silent refresh against the auth service,
// whose result is written to the visitor's session store. Only the latest
// refresh attempt of a store may write; older ones are cancelled and end as
// ActionSuperseded.
package guard

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/session"
)

// Refresher exchanges the session cookie for an access token.
type Refresher interface {
	Refresh(ctx context.Context) (*api.TokenResponse, error)
}

// DecodeFunc turns an access token into a user.
type DecodeFunc func(token string) (*session.User, error)

// Guard evaluates navigations for one session store.
type Guard struct {
	store     *session.Store
	refresher Refresher
	decode    DecodeFunc
}

// Option configures a Guard.
type Option func(*Guard)

// WithDecoder replaces api.DecodeUser.
func WithDecoder(fn DecodeFunc) Option {
	return func(g *Guard) {
		g.decode = fn
	}
}

// New returns a guard for store that refreshes through refresher.
func New(store *session.Store, refresher Refresher, opts ...Option) *Guard {
	g := &Guard{
		store:     store,
		refresher: refresher,
		decode:    api.DecodeUser,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Navigate decides on in. The store snapshot in in.Session is replaced by the
// store's current state.
func (g *Guard) Navigate(ctx context.Context, in Input) Decision {
	in.Session = g.store.Snapshot()

	d := Decide(in)

	switch {
	case d.Action == ActionRefresh:
		d = g.refresh(ctx, in.Path)
	case d.ClearSession:
		g.store.Clear()
	}

	Observe(in.Context, d)

	return d
}

func (g *Guard) refresh(ctx context.Context, path string) Decision {
	attempt := g.store.BeginRefresh(ctx)
	defer attempt.Done()

	start := time.Now()
	res, err := g.refresher.Refresh(attempt.Context())
	refreshDuration.Observe(time.Since(start).Seconds())

	var user *session.User

	if err == nil {
		user, err = g.decode(res.AccessToken)
	}

	if err != nil {
		if !g.store.FailRefresh(attempt) {
			refreshTotal.WithLabelValues("superseded").Inc()

			return Decision{Action: ActionSuperseded, Reason: "newer refresh in flight"}
		}

		refreshTotal.WithLabelValues("failed").Inc()
		log.Debug().Err(err).Str("path", path).Uint64("seq", attempt.Seq()).Msg("silent refresh failed")

		return RefreshFailed(path)
	}

	if !g.store.CompleteRefresh(attempt, res.AccessToken, user) {
		refreshTotal.WithLabelValues("superseded").Inc()

		return Decision{Action: ActionSuperseded, Reason: "newer refresh in flight"}
	}

	refreshTotal.WithLabelValues("ok").Inc()

	return Authenticated(path, user)
}
