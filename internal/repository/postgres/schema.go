package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the conversation tables if they do not exist yet.
// Messages live in their own table; the bigserial id fixes their order.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id            UUID PRIMARY KEY,
				title         TEXT NOT NULL DEFAULT '',
				system_prompt TEXT NOT NULL DEFAULT '',
				created_at    TIMESTAMPTZ NOT NULL,
				updated_at    TIMESTAMPTZ NOT NULL
			)`, tables.Conversations),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_updated_at_idx ON %s (updated_at DESC)`,
			tables.Conversations, tables.Conversations),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id              BIGSERIAL PRIMARY KEY,
				conversation_id UUID NOT NULL REFERENCES %s (id) ON DELETE CASCADE,
				role            TEXT NOT NULL,
				content         TEXT NOT NULL,
				created_at      TIMESTAMPTZ NOT NULL
			)`, tables.Messages, tables.Conversations),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_conversation_idx ON %s (conversation_id, id)`,
			tables.Messages, tables.Messages),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
