package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/diewo77/go-facturation/i18n"
	"github.com/diewo77/go-facturation/internal/config"
	"github.com/diewo77/go-facturation/internal/console"
	"github.com/diewo77/go-facturation/internal/db"
	"github.com/diewo77/go-facturation/internal/export"
	"github.com/diewo77/go-facturation/internal/logging"
	"github.com/diewo77/go-facturation/internal/models"
	"github.com/diewo77/go-facturation/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := logging.New(cfg.App.Dev, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if *migrateOnlyFlag {
		if err := migrateOnly(cfg, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		return
	}

	sink, err := buildSink(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up export sink", zap.Error(err))
	}

	catalog := services.NewCatalog(logger)
	invoices := services.NewInvoiceService(models.NewSequenceCounter(cfg.App.InvoiceStart), logger)

	lang := cfg.App.Lang
	if lang == "" {
		lang = os.Getenv("LANG")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = i18n.WithLang(ctx, i18n.DetectLanguage(lang))

	app := console.New(os.Stdin, os.Stdout, catalog, invoices, console.Options{Sink: sink, Logger: logger})
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("console stopped", zap.Error(err))
	}
	logger.Info("session ended",
		zap.Int("invoices", len(invoices.List())),
		zap.String("revenue", invoices.Revenue().String()))
}

// migrateOnly creates the snapshot table of the configured database.
func migrateOnly(cfg *config.Config, logger *zap.Logger) error {
	if !cfg.Database.Enabled() {
		logger.Warn("no database configured, nothing to migrate")
		return nil
	}
	if _, err := openStore(cfg, logger); err != nil {
		return err
	}
	logger.Info("migrations completed")
	return nil
}

// buildSink returns the file sink, chained with the database store when one is configured.
func buildSink(cfg *config.Config, logger *zap.Logger) (models.Sink, error) {
	files := export.FileSink{Dir: cfg.Export.Dir}
	if !cfg.Database.Enabled() {
		return files, nil
	}
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	return export.MultiSink{files, store}, nil
}

func openStore(cfg *config.Config, logger *zap.Logger) (*db.SnapshotStore, error) {
	logger.Info("connecting to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName))
	conn, err := db.Connect(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		return nil, err
	}
	return db.NewSnapshotStore(conn), nil
}
