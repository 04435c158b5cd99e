package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server 控制台/售货亭 HTTP 服务。写超时放宽到 30s，
// 导出接口要在一次响应里生成整个 CSV/XLSX。
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{httpServer: s, logger: logger}
}

func (s *Server) Start() error {
	s.logger.Info("Starting orvio-console HTTP server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping orvio-console HTTP server")
	return s.httpServer.Shutdown(ctx)
}
