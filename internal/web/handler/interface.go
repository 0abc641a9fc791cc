package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/web/session"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, registry *session.Registry) error
}
