package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fygallery/internal/config"
	"fygallery/internal/logging"
	"fygallery/internal/scan"
	"fygallery/internal/service"
	"fygallery/internal/store"
)

// StoreOpener opens the image store described by cfg.
type StoreOpener func(cfg config.StoreConfig, logger zerolog.Logger) (store.Store, error)

// NewRootCmd creates the root command for the CLI application.
// openStore is called once per invocation, which lets tests inject a
// store of their choosing.
func NewRootCmd(openStore StoreOpener) *cobra.Command {
	var (
		configFile string
		db         store.Store
		logCloser  interface{ Close() error }
		gallery    *service.Gallery
	)

	// closeAll releases what PersistentPreRunE opened. Every command defers
	// it through withStore, failed runs included.
	closeAll := func() error {
		var err error
		if db != nil {
			err = db.Close()
			db = nil
		}
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
		return err
	}
	withStore := func(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := closeAll(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
	}

	rootCmd := &cobra.Command{
		Use:           "fygallery-cli",
		Short:         "fygallery CLI - manage the image gallery database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := logging.Setup(cfg.Logging)
			if err != nil {
				return err
			}
			logCloser = closer
			logger = logging.Component(logger, "cli")

			db, err = openStore(cfg.Store, logging.Component(logger, "store"))
			if err != nil {
				closeAll()
				return fmt.Errorf("failed to open image store: %w", err)
			}
			gallery = service.NewGallery(db, scan.NewFileScanner(cfg.Gallery.Extensions...), logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default: config.yaml in the user config dir)")
	config.AddStoreFlags(rootCmd.PersistentFlags())

	// Add command
	addCmd := &cobra.Command{
		Use:   "add [image...]",
		Short: "Add one or more images to the gallery",
		Args:  cobra.MinimumNArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args))
			for _, arg := range args {
				p, err := filepath.Abs(arg)
				if err != nil {
					return err
				}
				paths = append(paths, p)
			}
			n, err := gallery.AddImages(cmd.Context(), paths)
			cmd.Printf("Added %d image(s).\n", n)
			return err
		}),
	}
	rootCmd.AddCommand(addCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all images in the gallery",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, args []string) error {
			records, err := gallery.Records(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("No images in the gallery.")
				return nil
			}
			for _, rec := range records {
				cmd.Printf("%d\t%s\n", rec.ID, rec.Path)
			}
			return nil
		}),
	}
	rootCmd.AddCommand(listCmd)

	// Remove command
	removeCmd := &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove an image from the gallery by id",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			if err := gallery.Remove(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Removed image %d.\n", id)
			return nil
		}),
	}
	rootCmd.AddCommand(removeCmd)

	// Import command
	importCmd := &cobra.Command{
		Use:   "import [directory]",
		Short: "Add every image found under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(dir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			n, err := gallery.ImportDirectory(cmd.Context(), dir)
			cmd.Printf("Imported %d image(s) from %s.\n", n, dir)
			return err
		}),
	}
	rootCmd.AddCommand(importCmd)

	// Clean command
	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove images whose files no longer exist",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, args []string) error {
			n, err := gallery.CleanMissing(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d missing image(s).\n", n)
			return nil
		}),
	}
	rootCmd.AddCommand(cleanCmd)

	return rootCmd
}

func main() {
	rootCmd := NewRootCmd(store.Open)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
