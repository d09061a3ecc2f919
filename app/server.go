package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/htol/libapi/api"
	"github.com/htol/libapi/config"
	"github.com/htol/libapi/logger"
	"github.com/htol/libapi/repo"
	"github.com/htol/libapi/service"
)

type Server struct {
	storage *repo.Repo
	service *service.Service
	config  *config.Config
	server  *http.Server
}

func NewServer(storage *repo.Repo, cfg *config.Config) *Server {
	svc := service.New(storage)
	return &Server{
		storage: storage,
		service: svc,
		config:  cfg,
		server: &http.Server{
			Addr: fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: api.NewHandler(svc, api.Options{
				StrictMemberValidation: cfg.Members.StrictValidation,
				AllowedOrigin:          cfg.Server.AllowedOrigin,
			}),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
	}
}

// ListenAndServe listens on the configured port and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully within the configured shutdown timeout
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if n := s.config.Server.MaxConns; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server listening", "addr", ln.Addr().String(), "max_conns", s.config.Server.MaxConns)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		timeout := time.Duration(s.config.Server.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	})

	return g.Wait()
}

func (s *Server) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return err
		}
	}
	return nil
}
