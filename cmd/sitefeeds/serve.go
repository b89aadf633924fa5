package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sitefeeds "github.com/goliatone/go-site-feeds"
	"github.com/goliatone/go-site-feeds/internal/logging"
	"github.com/goliatone/go-site-feeds/internal/watch"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		addr     string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feeds over HTTP, invalidating the cache when content changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := opts.module()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, module, addr, debounce, opts)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "delay before a content change invalidates the cache")
	return cmd
}

func serve(ctx context.Context, module *sitefeeds.Module, addr string, debounce time.Duration, opts *rootOptions) error {
	cfg := module.Config()
	if addr == "" {
		addr = cfg.Server.Addr
	}
	logger := logging.HTTPLogger(module.LoggerProvider())
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}

	var watcher *watch.Watcher
	if cfg.Features.Watch {
		w, err := module.NewWatcher(debounce)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		watcher = w
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           module.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		fmt.Fprintf(opts.out, "serving feeds on %s\n", addr)
		logger.Info("http.server.started", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http.server.stopping", "addr", addr)
		return server.Shutdown(shutdownCtx)
	})
	if watcher != nil {
		group.Go(func() error {
			return watcher.Run(ctx)
		})
	}
	return group.Wait()
}
