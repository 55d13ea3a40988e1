package httpbase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// GracefulServer wraps http.Server with SIGINT/SIGTERM-driven shutdown.
// In-flight requests get up to shutdownTimeout to finish.
type GracefulServer struct {
	server *http.Server
}

type GraceServerOpt struct {
	Port int
}

const shutdownTimeout = 5 * time.Second

func NewGracefulServer(opt GraceServerOpt, handler http.Handler) *GracefulServer {
	return &GracefulServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opt.Port),
			Handler: handler,
		},
	}
}

// Run serves until a termination signal arrives, then drains and returns.
func (s *GracefulServer) Run() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server listen failed", slog.Any("error", err))
			// fold the listen failure into the normal shutdown path
			quit <- syscall.SIGTERM
		}
	}()

	sig := <-quit
	slog.Info("shutting down", slog.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("server did not shut down cleanly", slog.Any("error", err))
	}

	slog.Info("server stopped")
}
