package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
	"aichat/internal/domain/repositories"
	chatRepo "aichat/internal/domain/repositories/chat"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool                *pgxpool.Pool
	Tables              *TableNames
	Logger              *slog.Logger
	DefaultSystemPrompt string
}

// PostgresConversationRepository implements the ConversationRepository interface
type PostgresConversationRepository struct {
	pool                *pgxpool.Pool
	tables              *TableNames
	txManager           repositories.TransactionManager
	defaultSystemPrompt string
}

var _ chatRepo.ConversationRepository = (*PostgresConversationRepository)(nil)

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(config *RepositoryConfig) *PostgresConversationRepository {
	return &PostgresConversationRepository{
		pool:                config.Pool,
		tables:              config.Tables,
		txManager:           NewTransactionManager(config.Pool, config.Logger),
		defaultSystemPrompt: config.DefaultSystemPrompt,
	}
}

// Create inserts an empty conversation
func (r *PostgresConversationRepository) Create(ctx context.Context, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = r.defaultSystemPrompt
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, system_prompt, created_at, updated_at)
		VALUES ($1, '', $2, $3, $3)
	`, r.tables.Conversations)

	id := uuid.New()
	now := time.Now().UTC()
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id, systemPrompt, now); err != nil {
		return "", fmt.Errorf("create conversation: %w", err)
	}
	return id.String(), nil
}

// Get retrieves a conversation and its messages in insertion order
func (r *PostgresConversationRepository) Get(ctx context.Context, id string) (*chatModels.Conversation, error) {
	convID, err := uuid.Parse(id)
	if err != nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}

	var conv chatModels.Conversation
	err = r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, r.pool)

		query := fmt.Sprintf(`
			SELECT id, title, system_prompt, created_at, updated_at
			FROM %s
			WHERE id = $1
		`, r.tables.Conversations)
		var scannedID uuid.UUID
		err := executor.QueryRow(txCtx, query, convID).Scan(
			&scannedID,
			&conv.Title,
			&conv.SystemPrompt,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			if isPgNoRowsError(err) {
				return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
			}
			return fmt.Errorf("get conversation: %w", err)
		}
		conv.ID = scannedID.String()

		msgQuery := fmt.Sprintf(`
			SELECT role, content, created_at
			FROM %s
			WHERE conversation_id = $1
			ORDER BY id ASC
		`, r.tables.Messages)
		rows, err := executor.Query(txCtx, msgQuery, convID)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}
		defer rows.Close()

		conv.Messages = []chatModels.Message{}
		for rows.Next() {
			var msg chatModels.Message
			var role string
			if err := rows.Scan(&role, &msg.Content, &msg.Timestamp); err != nil {
				return fmt.Errorf("scan message: %w", err)
			}
			msg.Role = chatModels.Role(role)
			conv.Messages = append(conv.Messages, msg)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListSummaries retrieves all conversations, ordered by updated_at DESC
func (r *PostgresConversationRepository) ListSummaries(ctx context.Context) ([]chatModels.ConversationSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, title, created_at, updated_at
		FROM %s
		ORDER BY updated_at DESC, id ASC
	`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	summaries := []chatModels.ConversationSummary{}
	for rows.Next() {
		var s chatModels.ConversationSummary
		var id uuid.UUID
		if err := rows.Scan(&id, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		s.ID = id.String()
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return summaries, nil
}

// AppendMessage bumps updated_at (locking the conversation row) and inserts the message
// in the same transaction, so concurrent appends are serialized per conversation.
func (r *PostgresConversationRepository) AppendMessage(ctx context.Context, id string, role chatModels.Role, content string) error {
	if !role.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid message role %q", role)}
	}
	convID, err := uuid.Parse(id)
	if err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}

	now := time.Now().UTC()
	return r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, r.pool)

		touch := fmt.Sprintf(`
			UPDATE %s
			SET updated_at = GREATEST(updated_at, $2)
			WHERE id = $1
		`, r.tables.Conversations)
		tag, err := executor.Exec(txCtx, touch, convID, now)
		if err != nil {
			return fmt.Errorf("touch conversation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
		}

		insert := fmt.Sprintf(`
			INSERT INTO %s (conversation_id, role, content, created_at)
			VALUES ($1, $2, $3, $4)
		`, r.tables.Messages)
		if _, err := executor.Exec(txCtx, insert, convID, string(role), content, now); err != nil {
			return fmt.Errorf("append message: %w", err)
		}
		return nil
	})
}

// SetTitle overwrites the title without touching updated_at
func (r *PostgresConversationRepository) SetTitle(ctx context.Context, id, title string) error {
	convID, err := uuid.Parse(id)
	if err != nil {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}
	query := fmt.Sprintf(`UPDATE %s SET title = $2 WHERE id = $1`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, convID, title)
	if err != nil {
		return fmt.Errorf("set title: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}
	return nil
}

// SetSystemPrompt overwrites the system prompt; false when absent or unchanged
func (r *PostgresConversationRepository) SetSystemPrompt(ctx context.Context, id, systemPrompt string) (bool, error) {
	convID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	query := fmt.Sprintf(`UPDATE %s SET system_prompt = $2 WHERE id = $1 AND system_prompt IS DISTINCT FROM $2`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, convID, systemPrompt)
	if err != nil {
		return false, fmt.Errorf("update system prompt: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a conversation; messages go with it via ON DELETE CASCADE
func (r *PostgresConversationRepository) Delete(ctx context.Context, id string) (bool, error) {
	convID, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Conversations)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, convID)
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Close closes the pool
func (r *PostgresConversationRepository) Close(_ context.Context) error {
	r.pool.Close()
	return nil
}
