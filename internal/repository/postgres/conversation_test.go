package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
)

func TestNewTableNames(t *testing.T) {
	tests := []struct {
		prefix        string
		conversations string
		messages      string
	}{
		{"dev_", "dev_conversations", "dev_conversation_messages"},
		{"prod_", "prod_conversations", "prod_conversation_messages"},
		{"", "conversations", "conversation_messages"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			tables := NewTableNames(tt.prefix)
			assert.Equal(t, tt.conversations, tables.Conversations)
			assert.Equal(t, tt.messages, tables.Messages)
		})
	}
}

// Requires a running PostgreSQL; set TEST_DATABASE_URL to enable.
func setupRepo(t *testing.T) *PostgresConversationRepository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := CreateConnectionPool(ctx, url)
	require.NoError(t, err)

	prefix := fmt.Sprintf("test_%d_", time.Now().UnixNano())
	tables := NewTableNames(prefix)
	require.NoError(t, EnsureSchema(ctx, pool, tables))

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s, %s", tables.Messages, tables.Conversations))
		pool.Close()
	})

	return NewConversationRepository(&RepositoryConfig{
		Pool:                pool,
		Tables:              tables,
		Logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		DefaultSystemPrompt: "default prompt",
	})
}

func TestPostgresConversationRepository_Lifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, "")
	require.NoError(t, err)

	conv, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "default prompt", conv.SystemPrompt)
	require.Empty(t, conv.Messages)

	require.NoError(t, repo.AppendMessage(ctx, id, chatModels.RoleUser, "hello"))
	require.NoError(t, repo.AppendMessage(ctx, id, chatModels.RoleAssistant, "hi"))
	require.NoError(t, repo.SetTitle(ctx, id, "greeting"))

	conv, err = repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "greeting", conv.Title)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "hello", conv.Messages[0].Content)
	require.Equal(t, chatModels.RoleAssistant, conv.Messages[1].Role)

	ok, err := repo.SetSystemPrompt(ctx, id, "changed")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.SetSystemPrompt(ctx, id, "changed")
	require.NoError(t, err)
	require.False(t, ok, "unchanged prompt is not a modification")

	summaries, err := repo.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = repo.Get(ctx, id)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPostgresConversationRepository_MalformedID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "not-a-uuid")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	err = repo.AppendMessage(ctx, "not-a-uuid", chatModels.RoleUser, "x")
	require.True(t, errors.Is(err, domain.ErrNotFound))

	ok, err := repo.Delete(ctx, "not-a-uuid")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPostgresConversationRepository_ConcurrentAppends(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, "")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.AppendMessage(ctx, id, chatModels.RoleUser, fmt.Sprintf("m%d", i)))
		}(i)
	}
	wg.Wait()

	conv, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, conv.Messages, n)
}
