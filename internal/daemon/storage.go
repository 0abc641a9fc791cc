package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/storage/redis/v3"
	"github.com/pkg/errors"

	"github.com/recipebook/recipebook-web/internal/config"
)

// Storage drivers visitor state can be persisted to.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ErrUnknownDriver is returned for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// NewStorage opens the visitor storage backend. The SQL drivers connect
// eagerly and panic on failure; the panic is returned as an error.
func NewStorage(cfg config.Storage) (storage fiber.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			storage = nil
			err = errors.Errorf("failed to open %s storage: %v", cfg.Driver, r)
		}
	}()

	switch cfg.Driver {
	case DriverMemory, "":
		return memory.New(memory.Config{GCInterval: cfg.GCInterval}), nil
	case DriverRedis:
		return redis.New(redis.Config{
			URL:   cfg.ConnectionURI,
			Reset: cfg.Reset,
		}), nil
	case DriverPostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
			Reset:         cfg.Reset,
			GCInterval:    cfg.GCInterval,
		}), nil
	case DriverMySQL:
		return mysql.New(mysql.Config{
			ConnectionURI: cfg.ConnectionURI,
			Table:         cfg.Table,
			Reset:         cfg.Reset,
			GCInterval:    cfg.GCInterval,
		}), nil
	default:
		return nil, errors.Wrap(ErrUnknownDriver, fmt.Sprintf("%q", cfg.Driver))
	}
}
