package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start runs the HTTP server in the background. The returned channel is
// closed once SIGINT, SIGTERM or SIGHUP arrives.
func (a *App) Start() <-chan struct{} {
	terminate := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-ctx.Done()
		close(terminate)

		slog.Info("shutdown signal received")
	}()

	return terminate
}

// Serve runs the HTTP server on l. The channel yields the serve error once.
func (a *App) Serve(l net.Listener) <-chan error {
	errs := make(chan error, 1)

	go func() {
		defer close(errs)

		slog.Info("http server listening", "address", l.Addr().String())
		if err := a.httpServer.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	return errs
}

// Stop shuts the HTTP server down first so in-flight logins finish, then
// releases resources in reverse order of creation.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
