package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/dcasim/internal/server"
)

const shutdownTimeout = 10 * time.Second

// runServer arranca el servidor HTTP y lo para limpiamente cuando el
// contexto se cancela (SIGINT/SIGTERM).
func runServer(ctx context.Context, port int, sim server.Simulator) error {
	srv := server.New(port, sim)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
