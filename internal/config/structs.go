package config

import (
	"time"

	"github.com/recipebook/recipebook-web/internal/logger"
)

// Session settings of the visitor cookie.
type Session struct {
	ExpiryTime    time.Duration `mapstructure:"expiryTime" toml:"expiryTime" json:"expiryTime"`
	SameSite      string        `mapstructure:"sameSite" toml:"sameSite" json:"sameSite" validate:"omitempty,oneof=Lax lax Strict strict None none"` //nolint:lll
	SweepInterval time.Duration `mapstructure:"sweepInterval" toml:"sweepInterval" json:"sweepInterval"`
}

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode" toml:"devMode" json:"devMode"` // enable dev mode for development
	Title     string     `mapstructure:"title" toml:"title" json:"title"`
	Log       logger.Log `mapstructure:"log" toml:"log" json:"log"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver" json:"webserver"`
	API       API        `mapstructure:"api" toml:"api" json:"api"`
	Storage   Storage    `mapstructure:"storage" toml:"storage" json:"storage"`
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    `mapstructure:"browseStatic" toml:"browseStatic" json:"browseStatic"` // static file browsing, development only
	Port           int     `mapstructure:"port" toml:"port" json:"port"`                         // listening port for the webserver
	ShutDownTime   int     `mapstructure:"shutDownTime" toml:"shutDownTime" json:"shutDownTime"` // seconds of 503 before shutdown
	URL            string  `mapstructure:"url" toml:"url" json:"url"`                            // public base url of the frontend
	CheckAliveURI  string  `mapstructure:"checkAliveURI" toml:"checkAliveURI" json:"checkAliveURI"`
	MetricsEnabled bool    `mapstructure:"metricsEnabled" toml:"metricsEnabled" json:"metricsEnabled"`
	Session        Session `mapstructure:"session" toml:"session" json:"session"`
}

// API holds the settings of the remote recipebook API.
type API struct {
	Base    string        `mapstructure:"base" toml:"base" json:"base" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" json:"timeout"`

	// RefreshCookie is the name of the upstream HTTP-only refresh cookie.
	// Left empty the frontend always asks the API whether a refresh works.
	RefreshCookie string `mapstructure:"refreshCookie" toml:"refreshCookie" json:"refreshCookie"`
	UserAgent     string `mapstructure:"userAgent" toml:"userAgent" json:"userAgent"`
}

// Storage selects the backend visitor state is persisted to.
type Storage struct {
	Driver        string        `mapstructure:"driver" toml:"driver" json:"driver" validate:"oneof=memory redis postgres mysql"` //nolint:lll
	ConnectionURI string        `mapstructure:"connectionURI" toml:"connectionURI" json:"connectionURI" validate:"required_unless=Driver memory"` //nolint:lll
	Table         string        `mapstructure:"table" toml:"table" json:"table"`
	GCInterval    time.Duration `mapstructure:"gcInterval" toml:"gcInterval" json:"gcInterval"`
	Reset         bool          `mapstructure:"reset" toml:"reset" json:"reset"`
}
