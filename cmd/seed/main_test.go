package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichat/internal/config"
	"aichat/internal/repository/bolt"
	"aichat/internal/repository/memory"
)

func TestSeedStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewConversationRepository("default")

	require.NoError(t, seedStore(ctx, store, seedOptions{}))
	summaries, err := store.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, len(getSeedConversations()))
	for _, s := range summaries {
		assert.NotEmpty(t, s.Title)
	}

	// fresh replaces rather than appends
	require.NoError(t, seedStore(ctx, store, seedOptions{fresh: true}))
	summaries, err = store.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, len(getSeedConversations()))

	require.NoError(t, seedStore(ctx, store, seedOptions{clearData: true}))
	summaries, err = store.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestRun_ClosesStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.db")
	cfg := &config.Config{Environment: "dev", DatabaseURI: "bolt://" + path, DefaultSystemPrompt: "default"}

	for _, opts := range []seedOptions{{}, {fresh: true}, {clearData: true}} {
		require.NoError(t, run(ctx, cfg, opts))

		// bolt holds an exclusive file lock, so reopening only succeeds once run has closed it
		store, err := bolt.Open(path, "default")
		require.NoError(t, err)
		summaries, err := store.ListSummaries(ctx)
		require.NoError(t, err)
		if opts.clearData {
			assert.Empty(t, summaries)
		} else {
			assert.Len(t, summaries, len(getSeedConversations()))
		}
		require.NoError(t, store.Close(ctx))
	}
}

func TestRun_BlocksDestructiveOptionsInProd(t *testing.T) {
	cfg := &config.Config{Environment: "prod", DatabaseURI: "memory://"}

	err := run(context.Background(), cfg, seedOptions{fresh: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOCKED")
}
