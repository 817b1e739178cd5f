package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	chatRepo "aichat/internal/domain/repositories/chat"
	"aichat/internal/repository/bolt"
	"aichat/internal/repository/memory"
	"aichat/internal/repository/mongo"
	"aichat/internal/repository/postgres"
)

// Options selects and configures a conversation store
type Options struct {
	// URI picks the backend by scheme:
	// mongodb:// and mongodb+srv:// (MongoDB), postgres:// and postgresql:// (PostgreSQL),
	// bolt://<path> (embedded BoltDB file), memory:// (process-local)
	URI                 string
	DatabaseName        string
	TablePrefix         string
	DefaultSystemPrompt string
}

// Backend returns the backend name for a store URI, or "" if the scheme is unknown
func Backend(uri string) string {
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return "mongo"
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(uri, "bolt://"):
		return "bolt"
	case strings.HasPrefix(uri, "memory://"):
		return "memory"
	}
	return ""
}

// Open connects to the store named by opts.URI
func Open(ctx context.Context, opts Options, logger *slog.Logger) (chatRepo.ConversationRepository, error) {
	backend := Backend(opts.URI)
	logger.Info("opening conversation store", "backend", backend)

	switch backend {
	case "mongo":
		repo, err := mongo.Connect(ctx, opts.URI, opts.DatabaseName, opts.DefaultSystemPrompt, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil

	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, opts.URI)
		if err != nil {
			return nil, err
		}
		tables := postgres.NewTableNames(opts.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewConversationRepository(&postgres.RepositoryConfig{
			Pool:                pool,
			Tables:              tables,
			Logger:              logger,
			DefaultSystemPrompt: opts.DefaultSystemPrompt,
		}), nil

	case "bolt":
		path := strings.TrimPrefix(opts.URI, "bolt://")
		if path == "" {
			return nil, fmt.Errorf("bolt store requires a file path, e.g. bolt://./data/chat.db")
		}
		repo, err := bolt.Open(path, opts.DefaultSystemPrompt)
		if err != nil {
			return nil, err
		}
		return repo, nil

	case "memory":
		logger.Warn("using in-memory store; conversations are lost on restart")
		return memory.NewConversationRepository(opts.DefaultSystemPrompt), nil
	}

	return nil, fmt.Errorf("unsupported database URI scheme: %q", schemeOf(opts.URI))
}

func schemeOf(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i]
	}
	return uri
}
