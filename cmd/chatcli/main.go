package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"aichat/internal/config"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
	chatSvc "aichat/internal/domain/services/chat"
	"aichat/internal/metrics"
	"aichat/internal/repository"
	chatService "aichat/internal/service/chat"
	llmService "aichat/internal/service/llm"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	ctx     context.Context
	chat    *chatService.Orchestrator
	store   chatRepo.ConversationRepository
	scanner *bufio.Scanner
	logger  *slog.Logger
	eof     bool
}

// setupLogger writes INFO to the console and DEBUG to a timestamped file under logs/
func setupLogger() (*slog.Logger, string, error) {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFilename := filepath.Join(logsDir, fmt.Sprintf("chat_cli_%s.log", timestamp))

	logFile, err := os.Create(logFilename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create log file: %w", err)
	}

	// Console stays quiet so streamed replies are readable
	consoleHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})

	fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.Format("2006-01-02 15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return a
		},
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), logFilename, nil
}

// multiHandler writes to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

func main() {
	_ = godotenv.Load()

	logger, logFile, err := setupLogger()
	if err != nil {
		fmt.Printf("Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("session started", "log_file", logFile)

	cfg := config.Load()
	ctx := context.Background()

	store, err := repository.Open(ctx, repository.Options{
		URI:                 cfg.DatabaseURI,
		DatabaseName:        cfg.DatabaseName,
		TablePrefix:         cfg.TablePrefix,
		DefaultSystemPrompt: cfg.DefaultSystemPrompt,
	}, logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to open store: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer store.Close(ctx)

	services, err := llmService.SetupServices(cfg, metrics.New(), logger)
	if err != nil {
		fmt.Printf("%s❌ Failed to setup providers: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	cli := &CLI{
		ctx:     ctx,
		chat:    chatService.NewOrchestrator(store, services.Streamer, services.Titles, nil, logger),
		store:   store,
		scanner: bufio.NewScanner(os.Stdin),
		logger:  logger,
	}

	fmt.Printf("%s🤖 aichat CLI%s (model: %s, log: %s)\n", colorCyan, colorReset, cfg.DefaultModel, logFile)
	cli.run()
}

func (cli *CLI) run() {
	for {
		fmt.Printf("\n%s=== Menu ===%s\n", colorBlue, colorReset)
		fmt.Println("1. New conversation")
		fmt.Println("2. List conversations")
		fmt.Println("3. Continue conversation")
		fmt.Println("4. Exit")
		fmt.Print("> ")

		choice := cli.readLine()
		if cli.eof {
			choice = "4"
		}
		switch choice {
		case "1":
			cli.chatLoop(nil)
		case "2":
			cli.listConversations()
		case "3":
			if id, ok := cli.selectConversation(); ok {
				cli.displayConversation(id)
				cli.chatLoop(&id)
			}
		case "4":
			_ = cli.chat.Drain(cli.ctx)
			fmt.Println("👋 Bye")
			return
		default:
			fmt.Printf("%sUnknown option%s\n", colorYellow, colorReset)
		}
	}
}

// chatLoop sends turns until the user enters an empty line
func (cli *CLI) chatLoop(conversationID *string) {
	fmt.Printf("%s(empty line returns to the menu)%s\n", colorYellow, colorReset)
	for {
		fmt.Printf("%sYou:%s ", colorGreen, colorReset)
		text := cli.readLine()
		if text == "" {
			return
		}

		turn, err := cli.chat.HandleTurn(cli.ctx, &chatSvc.TurnRequest{
			Message:        text,
			ConversationID: conversationID,
		})
		if err != nil {
			cli.logger.Error("turn failed", "error", err)
			fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
			return
		}
		id := turn.ConversationID
		conversationID = &id

		fmt.Printf("%sAssistant:%s ", colorCyan, colorReset)
		for event := range turn.Events {
			if data, ok := event.Data.(chatModels.MessageData); ok {
				fmt.Print(data.Content)
			}
		}
		fmt.Println()
	}
}

func (cli *CLI) listConversations() []chatModels.ConversationSummary {
	summaries, err := cli.store.ListSummaries(cli.ctx)
	if err != nil {
		fmt.Printf("%s❌ Failed to list conversations: %v%s\n", colorRed, err, colorReset)
		return nil
	}
	if len(summaries) == 0 {
		fmt.Println("No conversations yet")
		return nil
	}
	for i, s := range summaries {
		title := s.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%2d. %s %s(%s)%s\n", i+1, title, colorYellow, s.UpdatedAt.Local().Format("2006-01-02 15:04"), colorReset)
	}
	return summaries
}

func (cli *CLI) selectConversation() (string, bool) {
	summaries := cli.listConversations()
	if len(summaries) == 0 {
		return "", false
	}
	fmt.Print("Select #: ")
	n, err := strconv.Atoi(cli.readLine())
	if err != nil || n < 1 || n > len(summaries) {
		fmt.Printf("%sInvalid selection%s\n", colorYellow, colorReset)
		return "", false
	}
	return summaries[n-1].ID, true
}

func (cli *CLI) displayConversation(id string) {
	conv, err := cli.store.Get(cli.ctx, id)
	if err != nil {
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		return
	}
	fmt.Printf("\n%s=== %s ===%s\n", colorBlue, conv.Title, colorReset)
	for _, m := range conv.Messages {
		color := colorCyan
		if m.Role == chatModels.RoleUser {
			color = colorGreen
		}
		fmt.Printf("%s%s:%s %s\n", color, m.Role, colorReset, m.Content)
	}
}

func (cli *CLI) readLine() string {
	if !cli.scanner.Scan() {
		cli.eof = true
		return ""
	}
	return strings.TrimSpace(cli.scanner.Text())
}
