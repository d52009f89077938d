package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zakaut/zakaut/internal/api"
	"github.com/zakaut/zakaut/internal/pipeline"
)

var (
	serveAddr   string
	serveAPIKey string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP API",
	Long: `Serve exposes the extraction pipeline over HTTP:
- GET  /health    liveness probe (public)
- POST /api/runs  multipart upload of policy documents, returns the report

Auth uses a Bearer token when --api-key (or ZAKAUT_API_KEY) is set;
an empty key disables auth for local use.

Example:
  zakaut serve
  zakaut serve --addr :9000 --api-key s3cret`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8520", "listen address")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Bearer token required on /api routes (empty disables auth)")

	// Shared extraction flags
	serveCmd.Flags().Int64Var(&maxFileBytes, "max-bytes", 20_000_000, "max bytes per uploaded file")
	serveCmd.Flags().BoolVar(&strictCoverage, "strict-coverage", false, "fail a run when evidence coverage is below 1.0")
	serveCmd.Flags().StringVar(&mergeURL, "merge-url", "", "external similarity-merge endpoint (empty disables)")
	serveCmd.Flags().IntVar(&spanCap, "span-cap", 5, "max evidence spans kept per benefit")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Server.Addr = serveAddr
	cfg.Server.APIKey = serveAPIKey
	if cfg.Server.APIKey == "" {
		cfg.Server.APIKey = os.Getenv("ZAKAUT_API_KEY")
	}

	p := pipeline.NewPipeline(cfg)
	srv := api.NewServer(p, log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting zakaut", "addr", cfg.Server.Addr, "auth", cfg.Server.APIKey != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
