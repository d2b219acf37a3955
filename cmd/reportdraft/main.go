// Command reportdraft edits equipment inspection drafts from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/config/file"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/export/xlsx"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/photo/fs"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/reportapi/httpapi"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/reportapi/stub"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/cli"
	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/catalog"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/core/services"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
)

// version is set at build time.
var version = "dev"

// maxPhotoBytes caps the size of one attached photo.
const maxPhotoBytes = 20 << 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore(os.Getenv(file.EnvPrefix + "HOME"))
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	logger.SetVerbose(settings.Verbose)

	registry := calculators.NewDefaultRegistry(calculators.Options{
		StripGroupingDots: settings.Calc.StripGroupingDots,
	})
	schemas, err := openCatalog(ctx, settings.Catalog, registry)
	if err != nil {
		return err
	}

	// Settings commands must keep working with a misconfigured store.
	store, err := storage.Open(ctx, settings.Storage)
	if err != nil {
		logger.Warn("draft store %s unavailable, using memory: %v", settings.Storage.Driver, err)
		store, _ = storage.Open(ctx, domain.StorageSettings{Driver: domain.StorageMemory})
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("closing draft store: %v", cerr)
		}
	}()

	normaliser := document.New()
	catalogService := services.NewCatalogService(schemas, registry, normaliser)
	draftService := services.NewDraftService(store, schemas, normaliser)
	sessionService := services.NewSessionService(
		draftService, schemas, registry, fs.NewReader(maxPhotoBytes),
		services.WithAutosave(settings.Autosave),
		services.WithNormaliser(normaliser),
	)
	reportService := services.NewReportService(
		reportAPI(settings.API), draftService, store, schemas, registry, xlsx.NewExporter(),
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Catalog:   catalogService,
		Drafts:    draftService,
		Sessions:  sessionService,
		Reports:   reportService,
		Settings:  settingsService,
		Scheduler: services.NewScheduler(settings.Autosave.Interval),
	})

	return cli.ExecuteContext(ctx)
}

// openCatalog serves the embedded schemas, overridden by catalog.dir when
// set. With catalog.watch the directory is reloaded on change.
func openCatalog(ctx context.Context, cfg domain.CatalogSettings, reg *calculators.Registry) (driven.SchemaCatalog, error) {
	if cfg.Dir == "" {
		c, err := catalog.Builtin(reg)
		if err != nil {
			return nil, fmt.Errorf("loading schemas: %w", err)
		}
		return c, nil
	}

	if !cfg.Watch {
		c, err := catalog.Load(cfg.Dir, reg)
		if err != nil {
			return nil, fmt.Errorf("loading schemas from %s: %w", cfg.Dir, err)
		}
		return c, nil
	}

	w, err := catalog.NewWatcher(cfg.Dir, reg)
	if err != nil {
		return nil, fmt.Errorf("loading schemas from %s: %w", cfg.Dir, err)
	}
	reloads, err := w.Watch(ctx)
	if err != nil {
		logger.Warn("schema watch disabled: %v", err)
		return w, nil
	}
	go func() {
		for r := range reloads {
			if r.Err != nil {
				logger.Warn("schema reload failed, keeping previous catalog: %v", r.Err)
				continue
			}
			logger.Info("schemas reloaded (%d)", len(r.Catalog.Keys()))
		}
	}()
	return w, nil
}

// reportAPI returns the HTTP client when api.base_url is set and the
// offline stub otherwise.
func reportAPI(cfg domain.APISettings) driven.ReportAPI {
	if cfg.BaseURL == "" {
		logger.Debug("api.base_url not set, using offline report API")
		return stub.NewRepository()
	}
	return httpapi.New(cfg.BaseURL, cfg.Timeout,
		httpapi.WithRetry(2, 500*time.Millisecond),
		httpapi.WithToken(os.Getenv(file.EnvPrefix+"API_TOKEN")),
	)
}
