package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/adapter/report"
	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/logger"
	"github.com/rl1809/stockroom/internal/port"
)

// report loads the saved state and writes an XLSX catalog of one view
// without starting the servers.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	inventory := flag.String("inventory", domain.AllInventories, "inventory to export")
	out := flag.String("out", "stockroom-report.xlsx", "output file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, closeStore, err := storage.Open(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open state store", zap.Error(err))
	}
	defer closeStore()

	snap, err := repo.LoadState(ctx)
	if err != nil {
		zlog.Fatal("failed to load state", zap.Error(err))
	}
	if snap == nil {
		zlog.Fatal("no saved state found", zap.String("key", cfg.Store.Key))
	}

	// Work on a copy so re-deriving deliveries never writes back.
	scratch := storage.NewMemoryAdapter()
	if err := scratch.SaveState(ctx, *snap); err != nil {
		zlog.Fatal("failed to copy state", zap.Error(err))
	}
	loc, _ := cfg.Location()
	view := service.NewInventoryService(scratch, service.WithClock(port.SystemClock{Location: loc}))
	if err := view.Load(ctx); err != nil {
		zlog.Fatal("failed to load state", zap.Error(err))
	}

	products, err := view.SearchProducts(*inventory, "")
	if err != nil {
		zlog.Fatal("failed to list products", zap.String("inventory", *inventory), zap.Error(err))
	}
	dash, err := view.Dashboard(*inventory)
	if err != nil {
		zlog.Fatal("failed to build dashboard", zap.Error(err))
	}

	f, err := os.Create(*out)
	if err != nil {
		zlog.Fatal("failed to create output", zap.Error(err))
	}
	defer f.Close()

	if err := report.WriteCatalog(f, products, dash, time.Now()); err != nil {
		zlog.Fatal("failed to write report", zap.Error(err))
	}
	zlog.Info("report written",
		zap.String("file", *out),
		zap.String("inventory", *inventory),
		zap.Int("products", len(products)),
	)
}
