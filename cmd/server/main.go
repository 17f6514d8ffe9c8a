package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vozgestora/internal/app"
	"vozgestora/internal/config"
	"vozgestora/internal/llm"
	"vozgestora/internal/logging"
	"vozgestora/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	classifyMunicipality string
	classifyRating       int
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Voz Gestora municipal management API",
	Long: `Voz Gestora serves the municipal manager dashboard and the public
citizen poll: metrics, alerts, feedback with AI sentiment, and strategic reports.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket server",
	RunE:  runServe,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [comment]",
	Short: "Classify one citizen comment and print the sentiment",
	Long: `Runs the sentiment classifier once, exactly as a poll submission would:
one AI call, falling back to the rating heuristic on any failure.

Example:
  server classify --municipality patos --rating 9 "ótimo serviço"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CONFIG_PATH or config.yaml)")

	classifyCmd.Flags().StringVar(&classifyMunicipality, "municipality", "campina-grande", "Municipality id")
	classifyCmd.Flags().IntVar(&classifyRating, "rating", 0, "Poll rating 1-10 (0 = none)")

	rootCmd.AddCommand(serveCmd, classifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	a.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: a.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreBackend),
			zap.String("cache", cfg.CacheBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			logger.Error("listen failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)

	logger.Info("server exited")
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := service.NewDirectoryService(service.Municipalities).Get(classifyMunicipality)
	if err != nil {
		return fmt.Errorf("%s: %w", classifyMunicipality, err)
	}

	ctx := cmd.Context()
	generator, err := llm.New(ctx, cfg.AI, logger)
	if err != nil && !errors.Is(err, llm.ErrNotConfigured) {
		return err
	}

	var rating *int
	if classifyRating > 0 {
		rating = &classifyRating
	}
	classifier := service.NewSentimentClassifier(generator, cfg.AI.Models.Sentiment, logger)
	result := classifier.Classify(ctx, m.Name, strings.Join(args, " "), rating)

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", result.Sentiment, result.Source, result.Error)
	return nil
}
