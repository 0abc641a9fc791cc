// Package daemon wires the configuration, the visitor storage, the registry
// and the web service together.
package daemon

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/api"
	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/web"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	storage    fiber.Storage
	registry   *session.Registry
	webService *web.Service
}

// Start runs the web service until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if interval := d.cfg.Webserver.Session.SweepInterval; interval > 0 {
		go d.registry.Run(ctx, interval)
	}

	go d.webService.WaitShutdown()

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("api", d.cfg.API.Base).Msg("starting web service")

	err := d.webService.Start(addr)

	if closeErr := d.storage.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close visitor storage")
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	client, err := api.New(cfg.API.Base,
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
	)
	if err != nil {
		return nil, err
	}

	storage, err := NewStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	registry, err := session.NewRegistry(storage, client, RegistryConfig(cfg))
	if err != nil {
		_ = storage.Close()

		return nil, err
	}

	webService, err := web.New(cfg, registry)
	if err != nil {
		_ = storage.Close()

		return nil, err
	}

	log.Debug().
		Str("driver", cfg.Storage.Driver).
		Dur("expiry", cfg.Webserver.Session.ExpiryTime).
		Msg("visitor registry ready")

	return &Daemon{
		cfg:        cfg,
		storage:    storage,
		registry:   registry,
		webService: webService,
	}, nil
}

// RegistryConfig derives the visitor cookie settings. The cookie is only
// marked secure when served over https outside of dev mode.
func RegistryConfig(cfg *config.Config) session.Config {
	secure := false

	if u, err := url.Parse(cfg.Webserver.URL); err == nil {
		secure = u.Scheme == "https" && !cfg.DevMode
	}

	return session.Config{
		Expiry:        cfg.Webserver.Session.ExpiryTime,
		RefreshCookie: cfg.API.RefreshCookie,
		Secure:        secure,
		SameSite:      cfg.Webserver.Session.SameSite,
	}
}
