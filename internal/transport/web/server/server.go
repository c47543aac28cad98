package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/yolonews/localfeed/internal/domain"
	"golang.org/x/crypto/acme/autocert"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	TLSDisabled       bool
	TLSDisabledPort   int
	AutocertHostnames []string
	Router            http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.TLSDisabled {
		srv.Addr = fmt.Sprintf(":%d", s.TLSDisabledPort)
	}

	errCh := make(chan error, 1)
	go func() {
		if s.TLSDisabled {
			errCh <- srv.ListenAndServe()
		} else {
			errCh <- srv.Serve(autocert.NewListener(s.AutocertHostnames...))
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
