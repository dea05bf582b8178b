package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"servicedirectory/internal/app"
	"servicedirectory/internal/config"
	"servicedirectory/internal/logging"
	"servicedirectory/internal/service"
)

//go:embed testdata/services.json
var sampleServices []byte

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load service records into the directory store",
		Long: "Reads a JSON array of service records from a file or an http(s) URL and inserts them " +
			"through the directory service. Without --source the bundled sample records are used.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), source)
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "path or URL of a JSON array of service records")
	return cmd
}

func run(ctx context.Context, source string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	data := sampleServices
	if source != "" {
		logger.Info("fetching records", zap.String("source", source))
		if data, err = readSource(ctx, source); err != nil {
			return err
		}
	}

	records, err := decodeRecords(data)
	if err != nil {
		return err
	}
	logger.Info("records loaded", zap.Int("count", len(records)))

	directory, closeDirectory, err := openDirectory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDirectory()

	result := seedServices(ctx, directory, records, logger)

	logger.Info("seed completed",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	if result.Created == 0 && len(records) > 0 {
		return errors.New("no records were inserted")
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d records failed to insert", result.Failed)
	}
	return nil
}

// openDirectory builds the directory service records are inserted through.
// It shares the server's Redis cache so seeded records bump the same cache
// generations the server reads.
func openDirectory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.DirectoryService, func(), error) {
	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	store, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		_ = stores.Close(context.Background())
		return nil, nil, err
	}
	cacheClient := app.OpenCache(ctx, cfg, logger)

	closeFn := func() {
		_ = cacheClient.Close()
		_ = stores.Close(context.Background())
	}
	return service.NewDirectoryService(stores.Services, cacheClient, store, nil, logger, cfg.CacheTTL), closeFn, nil
}
