// cmd/server/main.go

// 本服務以 HTTP 提供帳戶建立、存提款、轉帳與交易紀錄查詢，作為帳本核心的示範驅動程式。
// 此檔案負責載入設定、建立 logger 與各模組（bank, server），
// 並啟動 HTTP 伺服器；收到 SIGINT/SIGTERM 時優雅關閉。
// 所有狀態僅存在記憶體中，程序結束即消失。

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"banking/internal/bank"
	"banking/internal/config"
	"banking/internal/logging"
	"banking/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "bank server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	b := bank.NewBank()
	s := server.NewServer(b,
		server.WithLogger(logger),
		server.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bank server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("bank server stopped", zap.Stringer("total_balance", b.Total()))
	return nil
}
