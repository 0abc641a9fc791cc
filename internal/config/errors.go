package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrSessionExpiryTooShort error if the visitor session would expire immediately.
	ErrSessionExpiryTooShort = errors.New("toml config webserver.session.expiryTime must be at least one minute")
)

// ErrNilConfig is returned when a component is handed no configuration.
var ErrNilConfig = errors.New("config is nil")
