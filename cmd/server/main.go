package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/stockroom/internal/adapter/handler"
	"github.com/rl1809/stockroom/internal/adapter/storage"
	"github.com/rl1809/stockroom/internal/config"
	"github.com/rl1809/stockroom/internal/core/service"
	"github.com/rl1809/stockroom/internal/logger"
	"github.com/rl1809/stockroom/internal/metrics"
	"github.com/rl1809/stockroom/internal/port"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, _ := cfg.Location()

	// Store
	repo, closeStore, err := storage.Open(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open state store", zap.Error(err))
	}
	defer closeStore()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		m = metrics.New(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Service
	inventoryService := service.NewInventoryService(repo,
		service.WithClock(port.SystemClock{Location: loc}),
		service.WithLogger(zlog.Named("inventory")),
		service.WithMetrics(m),
		service.WithPersistTimeout(cfg.Store.Timeout),
	)
	if err := inventoryService.Load(ctx); err != nil {
		zlog.Warn("failed to load saved state, serving defaults without writing until restart", zap.Error(err))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		inventoryService.RunDeliveryLoop(ctx, cfg.Delivery.Interval)
	}()
	zlog.Info("delivery loop started", zap.Duration("interval", cfg.Delivery.Interval))

	// gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(handler.UnaryLogger(zlog.Named("grpc"))))
	handler.RegisterInventoryServer(grpcServer, handler.NewGRPCHandler(inventoryService))

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		zlog.Fatal("failed to listen", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	go func() {
		zlog.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcServer.Serve(lis); err != nil {
			zlog.Error("gRPC server error", zap.Error(err))
		}
	}()

	// HTTP server
	httpHandler := handler.NewHTTPHandler(inventoryService, zlog.Named("http"))
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpHandler.Routes(metricsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	zlog.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	zlog.Info("gRPC server stopped")

	wg.Wait()
	if err := inventoryService.LastPersistError(); err != nil {
		zlog.Warn("last state write failed", zap.Error(err))
	}
	zlog.Info("shutdown complete")
}
