package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
	"github.com/joseph-ayodele/glucose-reports/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("GLUCOSE_CONFIG"), "YAML config file")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		common.NewLogger(os.Stderr, common.DefaultConfig().Log).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := common.NewLogger(os.Stdout, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := provider.NewPoppler(provider.Config{
		Pdftotext: cfg.Provider.Pdftotext,
		Pdftoppm:  cfg.Provider.Pdftoppm,
		DPI:       cfg.Provider.DPI,
		TempDir:   cfg.Provider.TempDir,
	}, logger)
	processor := core.NewProcessor(src, core.Config{
		ClassifierPages:     cfg.Provider.ClassifierPages,
		AllowLegacySnapshot: cfg.Provider.AllowLegacySnapshot,
	}, logger)

	// gRPC server
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.MaxRecvMsgSize(int(cfg.Server.MaxUploadBytes) + 1024))
	server.RegisterReportServiceServer(grpcServer, server.NewReportService(processor, cfg.Provider.TempDir, logger))

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(server.ReportServiceName, healthpb.HealthCheckResponse_SERVING)
	// Reflection for grpcurl
	reflection.Register(grpcServer)

	// HTTP upload API
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.NewHTTPHandler(processor, cfg.Server, cfg.Provider.TempDir, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("HTTP serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server failed", "error", err)
	}

	logger.Info("shutting down...")
	hs.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("stopped")
}
