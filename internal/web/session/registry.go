package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/guard"
	authsession "github.com/recipebook/recipebook-web/internal/session"
)

// Config holds the cookie and lifetime settings of the registry.
type Config struct {
	Expiry time.Duration

	// RefreshCookie is the upstream refresh cookie name. Empty means unknown.
	RefreshCookie string

	Secure   bool
	SameSite string
}

// Registry hands out visitors, caching live ones in memory.
type Registry struct {
	storage fiber.Storage
	api     *api.Client
	cfg     Config
	now     func() time.Time

	mu       sync.Mutex
	visitors map[string]*Visitor
}

// NewRegistry creates a registry persisting to storage.
func NewRegistry(storage fiber.Storage, client *api.Client, cfg Config) (*Registry, error) {
	if storage == nil {
		return nil, ErrStorageIsNil
	}

	if client == nil {
		return nil, ErrClientIsNil
	}

	if cfg.SameSite == "" {
		cfg.SameSite = fiber.CookieSameSiteLaxMode
	}

	return &Registry{
		storage:  storage,
		api:      client,
		cfg:      cfg,
		now:      time.Now,
		visitors: make(map[string]*Visitor),
	}, nil
}

// Config returns the registry settings.
func (r *Registry) Config() Config {
	return r.cfg
}

// Anonymous returns the API client without visitor state.
func (r *Registry) Anonymous() *api.Client {
	return r.api
}

// Resume returns the visitor of the request's cookie. It returns nil when the
// request carries no cookie. A cookie without stored state gets a fresh
// visitor under a new ID.
func (r *Registry) Resume(c *fiber.Ctx) (*Visitor, error) {
	id := c.Cookies(CookieName)
	if id == "" {
		return nil, nil //nolint:nilnil
	}

	v, err := r.Lookup(id)
	if err == nil {
		r.attach(c, v)

		return v, nil
	}

	if !errors.Is(err, ErrUnknownVisitor) {
		return nil, err
	}

	return r.Create(c)
}

// Ensure returns the request's visitor, creating one when needed.
func (r *Registry) Ensure(c *fiber.Ctx) (*Visitor, error) {
	if v := FromContext(c); v != nil {
		return v, nil
	}

	v, err := r.Resume(c)
	if err != nil || v != nil {
		return v, err
	}

	return r.Create(c)
}

// Current returns the request's visitor if it is known already. Unlike Resume
// it never starts a visitor or sets a cookie.
func (r *Registry) Current(c *fiber.Ctx) *Visitor {
	if v := FromContext(c); v != nil {
		return v
	}

	id := c.Cookies(CookieName)
	if id == "" {
		return nil
	}

	v, err := r.Lookup(id)
	if err != nil {
		if !errors.Is(err, ErrUnknownVisitor) {
			log.Warn().Err(err).Msg("failed to load visitor")
		}

		return nil
	}

	r.attach(c, v)

	return v
}

// New starts and stores a visitor without binding it to a request.
func (r *Registry) New() (*Visitor, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}

	v := r.newVisitor(id, Data{})

	if err = r.Save(v); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.visitors[id] = v
	r.mu.Unlock()

	return v, nil
}

// Create starts a new visitor and sets its cookie.
func (r *Registry) Create(c *fiber.Ctx) (*Visitor, error) {
	v, err := r.New()
	if err != nil {
		return nil, err
	}

	cookie := &fiber.Cookie{
		Name:     CookieName,
		Value:    v.ID,
		MaxAge:   int(r.cfg.Expiry.Seconds()),
		Secure:   r.cfg.Secure,
		HTTPOnly: true,
		SameSite: r.cfg.SameSite,
	}

	c.Cookie(cookie)
	r.attach(c, v)

	return v, nil
}

// Ephemeral returns a visitor that is never stored, for clients refusing cookies.
func (r *Registry) Ephemeral(c *fiber.Ctx) *Visitor {
	v := r.newVisitor("", Data{})
	v.ephemeral = true

	r.attach(c, v)

	return v
}

// Lookup returns the visitor with id from memory or storage.
func (r *Registry) Lookup(id string) (*Visitor, error) {
	r.mu.Lock()
	v, ok := r.visitors[id]
	r.mu.Unlock()

	if ok {
		r.sync(v)
		v.touch(r.now())

		return v, nil
	}

	var data Data
	if err := data.Read(r.storage, id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another request may have loaded it meanwhile
	if v, ok = r.visitors[id]; ok {
		return v, nil
	}

	v = r.newVisitor(id, data)
	r.visitors[id] = v

	return v, nil
}

// Save persists the visitor's session and upstream cookies.
func (r *Registry) Save(v *Visitor) error {
	if v == nil || v.ephemeral {
		return nil
	}

	data := v.data()
	data.Version = v.nextVersion()

	return data.Write(r.storage, v.ID, r.cfg.Expiry)
}

// sync reloads a cached visitor when another instance saved it since.
func (r *Registry) sync(v *Visitor) {
	var data Data

	if err := data.Read(r.storage, v.ID); err != nil {
		if !errors.Is(err, ErrUnknownVisitor) {
			log.Warn().Err(err).Msg("failed to reload visitor, serving cached state")
		}

		return
	}

	if v.reseed(data) {
		log.Debug().Str("visitor", v.ID[:min(8, len(v.ID))]).Uint64("version", data.Version).Msg("visitor reloaded")
	}
}

// Sweep drops visitors idle for longer than the expiry from memory.
// Their stored state expires on its own.
func (r *Registry) Sweep() int {
	deadline := r.now().Add(-r.cfg.Expiry).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0

	for id, v := range r.visitors {
		if v.lastSeen.Load() < deadline {
			delete(r.visitors, id)
			evicted++
		}
	}

	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Msg("idle visitors evicted")
			}
		}
	}
}

func (r *Registry) attach(c *fiber.Ctx, v *Visitor) {
	v.touch(r.now())
	c.Locals(localsKey, v)
}

func (r *Registry) newVisitor(id string, data Data) *Visitor {
	j := newJar(r.api.BaseURL(), data.Cookies)

	v := &Visitor{
		ID:      id,
		jar:     j,
		version: data.Version,
	}

	v.Store = authsession.New(authsession.WithNavigator(v), authsession.WithSession(data.Session))
	v.API = r.api.With(v.Store, j)
	v.Guard = guard.New(v.Store, v.API)
	v.touch(r.now())

	return v
}
