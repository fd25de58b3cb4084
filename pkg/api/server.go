// Package api assembles the grant finder's services and serves them over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"grant_finder/pkg/api/search"
	"grant_finder/pkg/core/app"
	"grant_finder/pkg/core/config"
	"grant_finder/pkg/core/credential"
	"grant_finder/pkg/core/export"
	"grant_finder/pkg/core/gateway"
	"grant_finder/pkg/core/llm"
	"grant_finder/pkg/core/prompt"
)

const (
	shutdownTimeout = 10 * time.Second
	captureTimeout  = 90 * time.Second
)

// Services is everything a front end (web or CLI) needs.
type Services struct {
	Config      config.Config
	Logger      *zap.Logger
	Credentials *credential.Store
	Prompts     *prompt.Registry
	Gateway     *gateway.Gateway
	Exporter    *export.Exporter
}

// NewServices wires the stack described by cfg.
func NewServices(cfg config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	creds, err := credential.FromSources(cfg.APIKey, cfg.SecretsDir)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if creds.Source() == "" {
		logger.Warn("no API key configured; searches will ask for one")
	} else {
		logger.Info("API key loaded", zap.String("source", creds.Source()), zap.String("key", creds.Masked()))
	}

	prompts := prompt.Get()
	if cfg.PromptDir != "" {
		n, err := prompt.LoadFromDirectory(prompts, cfg.PromptDir)
		if err != nil {
			return nil, fmt.Errorf("load prompt overrides: %w", err)
		}
		logger.Info("prompt overrides loaded", zap.Int("count", n), zap.String("dir", cfg.PromptDir))
	}

	provider, err := llm.NewProvider(cfg.Provider, creds, cfg.FixturePath)
	if err != nil {
		return nil, err
	}

	gw := gateway.New(provider, gateway.Options{
		Model:          cfg.Model,
		ThinkingBudget: cfg.ThinkingBudget,
		Prompts:        prompts,
		Logger:         logger.Named("gateway"),
	})

	exporter := export.NewExporter(&export.RodCapturer{
		Bin:           cfg.Export.ChromeBin,
		Scale:         cfg.Export.Scale,
		ViewportWidth: cfg.Export.ViewportWidth,
		Timeout:       captureTimeout,
	}, logger.Named("export"))

	return &Services{
		Config:      cfg,
		Logger:      logger,
		Credentials: creds,
		Prompts:     prompts,
		Gateway:     gw,
		Exporter:    exporter,
	}, nil
}

// NewController creates the session controller. Searches it starts are
// cancelled when ctx is.
func (s *Services) NewController(ctx context.Context) *app.Controller {
	ctrl := app.New(s.Gateway, app.Options{
		Language:    s.Config.Language(),
		Checker:     s.Credentials,
		Selector:    s.Credentials,
		Logger:      s.Logger.Named("app"),
		BaseContext: ctx,
	})
	ctrl.Subscribe(func(snap app.Snapshot) {
		s.Logger.Info("state changed",
			zap.String("state", snap.State.Name()),
			zap.String("lang", string(snap.Language)),
			zap.Uint64("version", snap.Version))
	})
	return ctrl
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Services) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully and
// waits for an in-flight search to settle.
func (s *Services) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	ctrl := s.NewController(gctx)

	mux := http.NewServeMux()
	search.NewHandler(ctrl, s.Exporter, s.Credentials, s.Logger.Named("http")).Register(mux)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		s.Logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		ctrl.Wait()
		return err
	})
	return g.Wait()
}
