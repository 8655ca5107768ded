package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/tessera/internal/adapters/http"
	loamAdapter "github.com/aretw0/tessera/internal/adapters/loam"
	redisAdapter "github.com/aretw0/tessera/internal/adapters/redis"
	"github.com/aretw0/tessera/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve expanded documents over HTTP",
	Long: `Starts an HTTP server exposing the source tree as expanded pages,
plus a JSON expansion API, health, and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Serve.Addr = addr
		}
		if src, _ := cmd.Flags().GetString("src"); src != "" {
			cfg.SourceDir = src
		}

		logger := newLogger(cmd)
		eng := newEngine(cfg, logger)

		source, err := loamAdapter.Open(cfg.SourceDir)
		if err != nil {
			return err
		}

		server := &httpAdapter.Server{
			Engine:  eng,
			Source:  sourceAdapter{source},
			BaseDir: source.Root(),
		}
		if cfg.Serve.Metrics {
			server.Metrics = observability.New(prometheus.DefaultRegisterer)
		}
		var cache *redisAdapter.Cache
		if cfg.Serve.Cache.Addr != "" {
			cache = redisAdapter.New(
				cfg.Serve.Cache.Addr,
				cfg.Serve.Cache.Password,
				cfg.Serve.Cache.DB,
				redisAdapter.WithTTL(cfg.Serve.Cache.TTL.Std()),
			)
			defer cache.Close()
			server.Cache = cache
		}

		srv := &http.Server{
			Addr:    cfg.Serve.Addr,
			Handler: httpAdapter.NewHandler(server),
		}

		// Invalidate cached pages when source documents change.
		watchCtx, cancelWatch := context.WithCancel(cmd.Context())
		defer cancelWatch()
		if cache != nil {
			if changes, err := source.Watch(watchCtx); err == nil {
				go invalidateOnChange(watchCtx, cache, changes)
			} else {
				logger.Warn("source watch unavailable", "err", err)
			}
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Tessera Server on %s\n", srv.Addr)
			fmt.Printf("Serving content from: %s\n", source.Root())
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Println("Tessera Server stopped gracefully")
			return nil
		}
	},
}

// sourceAdapter narrows the loam source to the HTTP server's Source port.
type sourceAdapter struct {
	src *loamAdapter.Source
}

func (a sourceAdapter) Get(ctx context.Context, id string) (httpAdapter.SourceDoc, error) {
	doc, err := a.src.Get(ctx, id)
	if err != nil {
		return httpAdapter.SourceDoc{}, err
	}
	return toServerDoc(doc), nil
}

func (a sourceAdapter) List(ctx context.Context) ([]httpAdapter.SourceDoc, error) {
	docs, err := a.src.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]httpAdapter.SourceDoc, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toServerDoc(doc))
	}
	return out, nil
}

func toServerDoc(doc loamAdapter.SourceDoc) httpAdapter.SourceDoc {
	return httpAdapter.SourceDoc{
		Path:    doc.Path,
		Title:   doc.Title,
		Draft:   doc.Draft,
		Content: doc.Content,
	}
}

func invalidateOnChange(ctx context.Context, cache *redisAdapter.Cache, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-changes:
			if !ok {
				return
			}
			_ = cache.Invalidate(ctx, id)
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().String("src", "", "Source directory (overrides config)")
}
