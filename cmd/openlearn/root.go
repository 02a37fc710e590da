package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/openlearn-hub-api/internal/repository"
	"github.com/noah-isme/openlearn-hub-api/internal/service"
	"github.com/noah-isme/openlearn-hub-api/pkg/config"
	"github.com/noah-isme/openlearn-hub-api/pkg/logger"
)

// cli holds state shared by every subcommand once the root pre-run has completed.
type cli struct {
	catalogPath string
	verbose     bool

	cfg       *config.Config
	logger    *zap.Logger
	catalog   *repository.CatalogRepository
	resources *service.ResourceService
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "openlearn",
		Short: "Browse the OpenLearn Hub catalog",
		Long: `openlearn works against the same catalog and validation rules as the API.

The catalog comes from CATALOG_PATH (or --catalog); without either the
embedded seed catalog is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog file (.yaml, .yml or .json)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newSearchCmd(c),
		newValidateCmd(c),
		newExportCmd(c),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.catalogPath != "" {
		cfg.Catalog.Path = c.catalogPath
	}
	cfg.Log.Format = "console"
	cfg.Log.Level = "warn"
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	c.cfg = cfg

	c.logger, err = logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	c.catalog, err = repository.LoadCatalog(cfg.Catalog.Path, c.logger)
	if err != nil {
		return err
	}
	c.resources = service.NewResourceService(c.catalog, nil, nil, service.ResourceServiceConfig{
		FeaturedLimit: cfg.Catalog.FeaturedLimit,
	}, c.logger)
	return nil
}
