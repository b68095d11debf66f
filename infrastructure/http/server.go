package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"http-logging/domain/port"
)

// Server 封装 HTTP 服务器，提供优雅关闭功能
type Server struct {
	server *http.Server
	logger port.Logger
	errCh  chan error
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Addr              string
	Handler           http.Handler
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// NewServer 创建新的 HTTP 服务器
func NewServer(cfg ServerConfig, logger port.Logger) *Server {
	if logger == nil {
		logger = &port.NopLogger{}
	}
	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           cfg.Handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		logger: logger,
		errCh:  make(chan error, 1),
	}
}

// Start 监听并在后台提供服务（非阻塞），监听失败立即返回
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve 在给定 listener 上后台提供服务
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", port.String("addr", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", port.Error(err))
			s.errCh <- err
		}
		close(s.errCh)
	}()
	return nil
}

// Errors 服务异常退出时收到错误，正常关闭时通道关闭
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig(addr string, handler http.Handler) ServerConfig {
	return ServerConfig{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
