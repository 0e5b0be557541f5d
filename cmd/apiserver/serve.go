package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"courier/marcas/internal/app/pkg/telemetry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// 1. 加载配置
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 2. 链路追踪（未启用时为空操作）
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry, cfg.App.Name)
	if err != nil {
		return fmt.Errorf("setup telemetry failed: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warnf(flushCtx, "Tracer provider shutdown error: %v", err)
		}
	}()

	// 3. 初始化应用
	app, cleanup, err := InitializeApp(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize app failed: %w", err)
	}
	defer cleanup()

	// 4. 启动 HTTP Server（后台 goroutine）
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx := context.Background()
	serverErrChan := make(chan error, 1)
	go func() {
		log.Infof(ctx, "Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 5. 优雅停机
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Infof(ctx, "Received shutdown signal, gracefully shutting down...")
	case err := <-serverErrChan:
		return fmt.Errorf("http server error: %w", err)
	}

	// 进行中的批次在超时内完成
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf(ctx, "HTTP server shutdown error: %v", err)
		return err
	}

	log.Infof(ctx, "HTTP server stopped gracefully")
	return nil
}
