package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	logadapter "http-logging/adapter/logging"
	"http-logging/domain/port"
	"http-logging/infrastructure/config"
	infrahttp "http-logging/infrastructure/http"
	infralogging "http-logging/infrastructure/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	showVersion := flag.Bool("version", false, "显示版本信息")
	flag.BoolVar(showVersion, "v", false, "显示版本信息（简写）")
	flag.Parse()

	if *showVersion {
		fmt.Printf("HTTP Logging demo %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	props := cfg.HTTPLogging.Resolve()

	output, err := infralogging.New(&cfg.Logging, props.MDCKey)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() {
		if err := output.Shutdown(); err != nil {
			log.Printf("关闭日志失败: %v", err)
		}
	}()

	logger := logadapter.NewZapLoggerAdapter(output.Logger.Named("app"))
	sink := logadapter.NewThrottledSink(
		logadapter.NewZapSink(output.Logger.Named("http"), props.MDCKey),
		props.MaxRecordsPerSecond,
		logger,
	)

	logger.Info("HTTP Logging demo",
		port.String("version", Version),
		port.String("listen", cfg.GetListen()),
		port.Bool("enabled", props.Enabled),
		port.Bool("multiline", props.Multiline),
	)

	srv := infrahttp.NewServer(infrahttp.DefaultServerConfig(cfg.GetListen(), newRouter(props, sink, logger)), logger)
	if err := srv.Start(); err != nil {
		logger.Error("服务器启动失败", port.Error(err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err, ok := <-srv.Errors():
		if ok && err != nil {
			logger.Error("服务器异常退出", port.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("优雅关闭失败", port.Error(err))
	}
}

// loadConfig 读取配置文件；文件不存在时使用默认配置
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("配置文件 %s 不存在，使用默认配置", path)
		return config.Default(), nil
	}
	return nil, err
}
