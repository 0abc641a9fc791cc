// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var (
	configPath string // directory holding main.toml

	rootCmd = &cobra.Command{
		Use:   "recipebook-web",
		Short: "recipebook-web is the web frontend of the recipe book",
		Long: `recipebook-web serves the pages of the recipe book and keeps each
visitor signed in against the recipebook API, refreshing the access token
silently while the upstream session cookie is valid.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory of main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
