// Package web assembles the frontend: views, static files, middlewares and
// the page handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/recipebook/recipebook-web/internal/config"
	fiberlogger "github.com/recipebook/recipebook-web/internal/logger/adapter/fiber"
	"github.com/recipebook/recipebook-web/internal/web/handler"
	"github.com/recipebook/recipebook-web/internal/web/handler/confirm"
	"github.com/recipebook/recipebook-web/internal/web/handler/dashboard"
	"github.com/recipebook/recipebook-web/internal/web/handler/forgotpassword"
	"github.com/recipebook/recipebook-web/internal/web/handler/home"
	"github.com/recipebook/recipebook-web/internal/web/handler/login"
	"github.com/recipebook/recipebook-web/internal/web/handler/logout"
	"github.com/recipebook/recipebook-web/internal/web/handler/profile"
	"github.com/recipebook/recipebook-web/internal/web/handler/settings"
	"github.com/recipebook/recipebook-web/internal/web/handler/signup"
	"github.com/recipebook/recipebook-web/internal/web/handler/verify"
	"github.com/recipebook/recipebook-web/internal/web/middleware/auth"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// MetricsPath serves the prometheus metrics when enabled.
const MetricsPath = "/metrics"

// ErrNilRegistry is returned by New without a visitor registry.
var ErrNilRegistry = errors.New("registry cannot be nil")

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	registry     *session.Registry
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails the check alive endpoint for the configured time, then stops
// the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the check alive endpoint answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, registry *session.Registry) (*Service, error) {
	if cfg == nil {
		return nil, handler.ErrNilDependency
	}

	if registry == nil {
		return nil, ErrNilRegistry
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "recipebook-web",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newViews(cfg),
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		registry:     registry,
		fastShutDown: cfg.Webserver.ShutDownTime <= 0,
	}
	service.alive.Store(true)

	// checkalive and metrics are registered first so the access log and guard never see them
	app.Get(cfg.Webserver.CheckAliveURI, service.checkAlive)

	if cfg.Webserver.MetricsEnabled {
		app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
		VisitorID: func(c *fiber.Ctx) string {
			if v := session.FromContext(c); v != nil {
				return v.ID
			}

			return ""
		},
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:   assetFS("static"),
				Browse: cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(auth.New(auth.Config{Registry: registry}))

	handlers := []handler.Service{
		&home.Handler,
		&login.Handler,
		&signup.Handler,
		&logout.Handler,
		&forgotpassword.Handler,
		&verify.Handler,
		&confirm.Handler,
		&dashboard.Handler,
		&settings.Handler,
		&profile.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, registry); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

func newViews(cfg *config.Config) *html.Engine {
	templateEngine := html.NewFileSystem(assetFS("templates"), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}

		return *s
	})

	return templateEngine
}
