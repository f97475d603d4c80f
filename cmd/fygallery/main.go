// Main entry point for the gallery application
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fygallery/internal/config"
	"fygallery/internal/logging"
	"fygallery/internal/store"
	"fygallery/internal/ui"
)

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "fygallery",
		Short:         "Keep a gallery of images and show them as a slideshow",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := logging.Setup(cfg.Logging)
			if err != nil {
				return err
			}
			defer closer.Close()

			s, err := store.Open(cfg.Store, logging.Component(logger, "store"))
			if err != nil {
				logger.Error().Err(err).Msg("Failed to open image store")
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					logger.Error().Err(err).Msg("Error closing image store")
				}
			}()

			logger.Info().Str("driver", cfg.Store.Driver).Dur("interval", cfg.Slideshow.Interval).Msg("Starting gallery")
			ui.CreateApplication(cfg, s, logger)
			return nil
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to a config file (default: config.yaml in the user config dir)")
	config.AddFlags(rootCmd.Flags())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
