// Package main 提供 gamenet 服务端命令行入口
//
// 启动服务端并运行一个最小的参考游戏循环：
//
//	gamenet -config gamenet.json
//	gamenet -socket 127.0.0.1:4433 -self-signed -metrics 127.0.0.1:9100
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
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-gamenet"
	"github.com/dep2p/go-gamenet/internal/core/security/cert"
	logging "github.com/dep2p/go-gamenet/internal/util/logger"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("gamenet/cmd")

// metricsShutdownTimeout 指标服务关闭超时
const metricsShutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Println(gamenet.VersionInfo())
		return nil
	}

	cfg, err := buildConfig(flags, os.LookupEnv)
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, cfg.Logging, logLookup(flags, os.LookupEnv))

	opts := []gamenet.Option{gamenet.WithConfig(cfg)}
	if flags.selfSigned {
		m, err := cert.GenerateSelfSigned()
		if err != nil {
			return fmt.Errorf("生成自签名证书失败: %w", err)
		}
		logger.Warn("使用自签名证书，仅用于开发")
		opts = append(opts, gamenet.WithCertificate(m))
	}

	srv, err := gamenet.New(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("启动 gamenet", "version", gamenet.Version, "commit", gamenet.GitCommit)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	fmt.Printf("gamenet 已在 %s 监听 (%s)，按 Ctrl+C 退出\n", srv.Addr(), cfg.Network.Transport)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runGame(gctx, srv.Commands(), srv.Send)
	})
	if addr := cfg.Diagnostics.MetricsAddr; addr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, addr, srv)
		})
	}

	err = g.Wait()
	logger.Info("正在关闭")
	return multierr.Append(err, srv.Close())
}

// serveMetrics 在 addr 上暴露 /metrics，ctx 结束时关闭
func serveMetrics(ctx context.Context, addr string, srv *gamenet.Server) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(srv.Metrics(), promhttp.HandlerOpts{}))
	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("指标服务已启动", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}
