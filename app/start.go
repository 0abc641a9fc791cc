package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/recipebook/recipebook-web/internal/config"
	"github.com/recipebook/recipebook-web/internal/daemon"
	"github.com/recipebook/recipebook-web/internal/logger"
)

func init() { //nolint:gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().BoolVar(
		&browseStatic,
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	devMode      bool
	browseStatic bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the recipebook web frontend",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if browseStatic {
				cfg.Webserver.BrowseStatic = true
			}

			if err = logger.Init(cfg.Log); err != nil {
				return err
			}

			if cfg.DevMode {
				log.Warn().Msg("dev mode enabled")
			}

			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
