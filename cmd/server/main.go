package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"aichat/internal/config"
	"aichat/internal/handler"
	"aichat/internal/handler/sse"
	"aichat/internal/metrics"
	"aichat/internal/middleware"
	"aichat/internal/repository"
	chatService "aichat/internal/service/chat"
	serviceLLM "aichat/internal/service/llm"
)

const (
	maxLogFiles     = 10
	shutdownTimeout = 30 * time.Second
)

type serverFlags struct {
	host    string
	port    string
	envFile string
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &serverFlags{}

	cmd := &cobra.Command{
		Use:           "aichat",
		Short:         "Streaming AI chat backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.host, "host", "", "bind host (overrides HOST)")
	cmd.Flags().StringVar(&flags.port, "port", "", "bind port (overrides PORT)")
	cmd.Flags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load if present")
	return cmd
}

func run(parent context.Context, flags *serverFlags) error {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load(flags.envFile)

	cfg := config.Load()
	if flags.host != "" {
		cfg.Host = flags.host
	}
	if flags.port != "" {
		cfg.Port = flags.port
	}

	logger, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"addr", cfg.Addr(),
		"store", repository.Backend(cfg.DatabaseURI),
	)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store, err := repository.Open(ctx, repository.Options{
		URI:                 cfg.DatabaseURI,
		DatabaseName:        cfg.DatabaseName,
		TablePrefix:         cfg.TablePrefix,
		DefaultSystemPrompt: cfg.DefaultSystemPrompt,
	}, logger)
	if err != nil {
		return fmt.Errorf("open conversation store: %w", err)
	}

	llmServices, err := serviceLLM.SetupServices(cfg, m, logger)
	if err != nil {
		_ = store.Close(context.Background())
		return fmt.Errorf("setup LLM services: %w", err)
	}

	orchestrator := chatService.NewOrchestrator(store, llmServices.Streamer, llmServices.Titles, m, logger)
	conversationService := chatService.NewConversationService(store, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Chat:          handler.NewChatHandler(orchestrator, handler.NewSSEHandler(sse.DefaultConfig(), logger), logger),
		Conversations: handler.NewConversationHandler(conversationService, logger),
		Models:        handler.NewModelsHandler(cfg, logger),
		Metrics:       m.Handler(),
	})

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	h = newCORS(cfg.CORSOrigins).Handler(h)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		// turns detached from disconnected clients still hold the store
		if err := orchestrator.Drain(shutdownCtx); err != nil {
			logger.Warn("in-flight turns did not finish before shutdown", "error", err)
		}
		if err := store.Close(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}

		logger.Info("shutdown complete")
		return errors.Join(errs...)
	})

	return eg.Wait()
}

// setupLogger builds the JSON logger; with LOG_DIR set it also writes to a rotated file
func setupLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	closeFn := func() {}
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, maxLogFiles)
		if err != nil {
			return nil, nil, fmt.Errorf("setup log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// newCORS allows any request header from the configured comma-separated origins
func newCORS(origins string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   strings.Split(origins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
}
