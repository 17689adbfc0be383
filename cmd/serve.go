package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/alsobought-cli/internal/web"
)

var (
	serveAddr  string
	serveFlags datasetFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload-and-select web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		oopt, err := serveFlags.orderOptions(cmd, c)
		if err != nil {
			return err
		}
		popt, err := serveFlags.pipelineOptions(cmd, c)
		if err != nil {
			return err
		}
		log, err := newLogger(c)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		addr := c.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		srv := web.NewServer(web.Config{
			Orders:         oopt,
			Pipeline:       popt,
			TopK:           c.TopK,
			MaxUploadBytes: int64(c.MaxUploadMB) << 20,
			CacheSize:      c.CacheSize,
			CacheTTL:       time.Duration(c.CacheTTLMin) * time.Minute,
		}, log)

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return runServer(cmd.Context(), ln, &http.Server{
			Handler:      srv.Routes(),
			ReadTimeout:  time.Duration(c.HTTPReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(c.HTTPWriteTimeoutSec) * time.Second,
		}, time.Duration(c.HTTPShutdownSec)*time.Second, log)
	},
}

// runServer serves on ln until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, ln net.Listener, hs *http.Server, grace time.Duration, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- hs.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
		return err
	}
	log.Info("Server stopped gracefully")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: :8080)")
	serveFlags.register(serveCmd)
}
