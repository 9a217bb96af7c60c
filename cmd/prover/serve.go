package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zkprover/keyless-prover/internal/apiserver"
	"github.com/zkprover/keyless-prover/internal/jwkcache"
	"github.com/zkprover/keyless-prover/internal/proverstate"
	"github.com/zkprover/keyless-prover/internal/watcher"
)

type serveFlags struct {
	logLevel        string
	logFormat       string
	enableCORS      bool
	corsOrigins     []string
	writeTimeout    time.Duration
	maxRequestSize  int64
	shutdownTimeout time.Duration
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the prover HTTP API",
		Long:  `Loads the dual-setup proving state and starts the /v0/prove API plus a standalone metrics server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	}

	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")
	cmd.Flags().BoolVar(&flags.enableCORS, "enable-cors", false, "Enable CORS middleware")
	cmd.Flags().StringSliceVar(&flags.corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")
	cmd.Flags().DurationVar(&flags.writeTimeout, "write-timeout", 120*time.Second, "HTTP write timeout (proving can be slow)")
	cmd.Flags().Int64Var(&flags.maxRequestSize, "max-request-size", 1<<20, "Maximum request body size in bytes")
	cmd.Flags().DurationVar(&flags.shutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	return cmd
}

func runServe(flags *serveFlags) error {
	logger := apiserver.SetupLogger(flags.logLevel, flags.logFormat)
	slogLog := apiserver.SlogHandle(flags.logLevel, flags.logFormat)

	state, err := proverstate.Init()
	if err != nil {
		return fmt.Errorf("initializing prover state: %w", err)
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	jwks := jwkcache.New(httpClient, slogLog, apiserver.JwkDroppedCounter, state.Config.EnableFederatedJwks)

	server := &apiserver.Server{
		State:      state,
		Jwks:       jwks,
		Groth16VK:  &watcher.Cell[proverstate.OnChainGroth16VerificationKey]{},
		TWConfig:   &watcher.Cell[proverstate.OnChainKeylessConfiguration]{},
		HTTPClient: httpClient,
		Log:        logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.StartBackgroundLoops(ctx, slogLog); err != nil {
		return fmt.Errorf("starting background refresh loops: %w", err)
	}

	router := apiserver.NewRouter(server, apiserver.RouterConfig{
		WriteTimeout:   flags.writeTimeout,
		MaxRequestSize: flags.maxRequestSize,
		EnableCORS:     flags.enableCORS,
		CorsOrigins:    flags.corsOrigins,
	}, logger)

	mainAddr := fmt.Sprintf(":%d", state.Config.Port)
	mainServer := &http.Server{
		Addr:         mainAddr,
		Handler:      router,
		WriteTimeout: flags.writeTimeout,
	}

	metricsAddr := fmt.Sprintf(":%d", state.Config.MetricsPort)
	metricsServer := &http.Server{
		Addr:    metricsAddr,
		Handler: apiserver.NewMetricsRouter(),
	}

	serverErr := make(chan error, 2)
	go func() {
		logger.Info("prover listening", "addr", mainAddr)
		if err := mainServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("main server: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics listening", "addr", metricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), flags.shutdownTimeout)
	defer shutdownCancel()

	logger.Info("shutting down gracefully")
	if err := mainServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("main server shutdown: %w", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	logger.Info("stopped")
	return nil
}
