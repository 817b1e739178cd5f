package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"aichat/internal/config"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
	"aichat/internal/repository"
)

type seedOptions struct {
	clearData bool
	fresh     bool
}

func main() {
	// Parse command-line flags
	var opts seedOptions
	flag.BoolVar(&opts.clearData, "clear-data", false, "Delete every conversation and exit")
	flag.BoolVar(&opts.fresh, "fresh", false, "Delete every conversation before seeding")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	if err := run(context.Background(), config.Load(), opts); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// run opens the configured store, seeds it and always closes it before returning
func run(ctx context.Context, cfg *config.Config, opts seedOptions) (err error) {
	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (opts.clearData || opts.fresh) {
		return errors.New("🚫 BLOCKED: Cannot run destructive operations (--clear-data or --fresh) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	store, err := repository.Open(ctx, repository.Options{
		URI:                 cfg.DatabaseURI,
		DatabaseName:        cfg.DatabaseName,
		TablePrefix:         cfg.TablePrefix,
		DefaultSystemPrompt: cfg.DefaultSystemPrompt,
	}, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
		}
	}()

	log.Printf("🌱 Using %s store (environment: %s)", repository.Backend(cfg.DatabaseURI), cfg.Environment)
	return seedStore(ctx, store, opts)
}

func seedStore(ctx context.Context, store chatRepo.ConversationRepository, opts seedOptions) error {
	if opts.clearData || opts.fresh {
		log.Println("🧹 Deleting existing conversations...")
		n, err := clearConversations(ctx, store)
		if err != nil {
			return fmt.Errorf("clear conversations: %w", err)
		}
		log.Printf("✅ Deleted %d conversations", n)
		if opts.clearData {
			return nil
		}
	}

	conversations := getSeedConversations()
	for i, seed := range conversations {
		id, err := seedConversation(ctx, store, seed)
		if err != nil {
			log.Printf("❌ Failed to seed conversation '%s': %v", seed.title, err)
			continue
		}
		log.Printf("✅ Created conversation %d/%d: %s (ID: %s, Messages: %d)",
			i+1, len(conversations), seed.title, id, len(seed.messages))
	}

	log.Println("🎉 Seeding complete!")
	return nil
}

// clearConversations deletes every conversation the store lists
func clearConversations(ctx context.Context, store chatRepo.ConversationRepository) (int, error) {
	summaries, err := store.ListSummaries(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, s := range summaries {
		ok, err := store.Delete(ctx, s.ID)
		if err != nil {
			return deleted, err
		}
		if ok {
			deleted++
		}
	}
	return deleted, nil
}

func seedConversation(ctx context.Context, store chatRepo.ConversationRepository, seed seedConversationData) (string, error) {
	id, err := store.Create(ctx, seed.systemPrompt)
	if err != nil {
		return "", err
	}
	for _, m := range seed.messages {
		if err := store.AppendMessage(ctx, id, m.Role, m.Content); err != nil {
			return id, err
		}
	}
	if err := store.SetTitle(ctx, id, seed.title); err != nil {
		return id, err
	}
	return id, nil
}

type seedConversationData struct {
	title        string
	systemPrompt string // empty uses the store default
	messages     []chatModels.Message
}

func getSeedConversations() []seedConversationData {
	return []seedConversationData{
		{
			title: "Goの並行処理について",
			messages: []chatModels.Message{
				{Role: chatModels.RoleUser, Content: "Goの並行処理について教えてください"},
				{Role: chatModels.RoleAssistant, Content: "Goではgoroutineとchannelを使って並行処理を書きます。goroutineは軽量なスレッドで、channelはgoroutine間で値を受け渡すための型付きのパイプです。"},
				{Role: chatModels.RoleUser, Content: "selectはどう使いますか？"},
				{Role: chatModels.RoleAssistant, Content: "selectは複数のchannel操作を待ち受け、準備ができたものを一つ実行します。タイムアウトやキャンセルの処理によく使われます。"},
			},
		},
		{
			title:        "Recipe ideas",
			systemPrompt: "You are a concise cooking assistant. Answer in English.",
			messages: []chatModels.Message{
				{Role: chatModels.RoleUser, Content: "What can I make with eggs, rice and spinach?"},
				{Role: chatModels.RoleAssistant, Content: "Try a spinach fried rice topped with a soft fried egg, or a baked rice and spinach frittata."},
			},
		},
		{
			title: "旅行の計画",
			messages: []chatModels.Message{
				{Role: chatModels.RoleUser, Content: "京都で2日間過ごすならどこに行くべき？"},
			},
		},
	}
}
