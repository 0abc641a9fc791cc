// Package config handles input from etc/*.toml files and RECIPEBOOK_* environment variables.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. RECIPEBOOK_API_BASE.
	EnvPrefix = "RECIPEBOOK"

	// JSONConfigEnv holds a JSON document merged over the whole config.
	JSONConfigEnv = EnvPrefix + "_CONFIG_JSON"

	defaultShutDownTime = 5
	invalidErrMessage   = "invalid config"
)

// ReadConfig from path/main.toml, environment overrides and JSONConfigEnv.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if override := os.Getenv(JSONConfigEnv); override != "" {
		var err error

		if c, err = decodeAndMergeConfig(c, override); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Recipebook")
	v.SetDefault("devMode", false)

	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "recipebook-web")
	v.SetDefault("log.serviceName", "recipebook-web")
	v.SetDefault("log.console.enabled", true)

	v.SetDefault("webserver.port", 3000) //nolint:mnd
	v.SetDefault("webserver.url", "http://localhost:3000")
	v.SetDefault("webserver.shutDownTime", defaultShutDownTime)
	v.SetDefault("webserver.checkAliveURI", "/checkalive")
	v.SetDefault("webserver.metricsEnabled", true)
	v.SetDefault("webserver.session.expiryTime", "720h")
	v.SetDefault("webserver.session.sameSite", "Lax")
	v.SetDefault("webserver.session.sweepInterval", "10m")

	v.SetDefault("api.base", "http://localhost:8000")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.refreshCookie", "refresh_token")
	v.SetDefault("api.userAgent", "recipebook-web")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.table", "visitors")
	v.SetDefault("storage.gcInterval", "10s")
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the frontend can not start without and fills
// in the remaining defaults.
func validate(c *Config) error {
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime < time.Minute {
		return errors.Wrap(ErrSessionExpiryTooShort, invalidErrMessage)
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	return nil
}
