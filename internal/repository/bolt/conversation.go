package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
)

var conversationsBucket = []byte("conversations")

// ConversationRepository keeps each conversation as one JSON document in a BoltDB bucket.
// Bolt serializes writers, so read-modify-write inside Update is atomic.
type ConversationRepository struct {
	db                  *bolt.DB
	defaultSystemPrompt string
	now                 func() time.Time
}

var _ chatRepo.ConversationRepository = (*ConversationRepository)(nil)

// Open opens (or creates) the database file at path
func Open(path, defaultSystemPrompt string) (*ConversationRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(conversationsBucket)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &ConversationRepository{
		db:                  db,
		defaultSystemPrompt: defaultSystemPrompt,
		now:                 func() time.Time { return time.Now().UTC() },
	}, nil
}

func (r *ConversationRepository) Create(_ context.Context, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = r.defaultSystemPrompt
	}
	now := r.now()
	conv := &chatModels.Conversation{
		ID:           uuid.New().String(),
		Messages:     []chatModels.Message{},
		SystemPrompt: systemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := r.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(conversationsBucket), conv)
	})
	if err != nil {
		return "", fmt.Errorf("create conversation: %w", err)
	}
	return conv.ID, nil
}

func (r *ConversationRepository) Get(_ context.Context, id string) (*chatModels.Conversation, error) {
	var conv *chatModels.Conversation
	err := r.db.View(func(tx *bolt.Tx) error {
		var e error
		conv, e = get(tx.Bucket(conversationsBucket), id)
		return e
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *ConversationRepository) ListSummaries(_ context.Context) ([]chatModels.ConversationSummary, error) {
	summaries := []chatModels.ConversationSummary{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(conversationsBucket).ForEach(func(k, v []byte) error {
			var conv chatModels.Conversation
			if e := json.Unmarshal(v, &conv); e != nil {
				// Skip malformed
				return nil
			}
			summaries = append(summaries, conv.Summary())
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	chatModels.SortByRecent(summaries)
	return summaries, nil
}

func (r *ConversationRepository) AppendMessage(_ context.Context, id string, role chatModels.Role, content string) error {
	if !role.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid message role %q", role)}
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(conversationsBucket)
		conv, err := get(b, id)
		if err != nil {
			return err
		}
		now := r.now()
		conv.Messages = append(conv.Messages, chatModels.Message{
			Role:      role,
			Content:   content,
			Timestamp: now,
		})
		if now.After(conv.UpdatedAt) {
			conv.UpdatedAt = now
		}
		return put(b, conv)
	})
}

func (r *ConversationRepository) SetTitle(_ context.Context, id, title string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(conversationsBucket)
		conv, err := get(b, id)
		if err != nil {
			return err
		}
		conv.Title = title
		return put(b, conv)
	})
}

// SetSystemPrompt reports false when the conversation is absent or already has that prompt
func (r *ConversationRepository) SetSystemPrompt(_ context.Context, id, systemPrompt string) (bool, error) {
	modified := false
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(conversationsBucket)
		conv, err := get(b, id)
		if err != nil {
			return err
		}
		if conv.SystemPrompt == systemPrompt {
			return nil
		}
		modified = true
		conv.SystemPrompt = systemPrompt
		return put(b, conv)
	})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("update system prompt: %w", err)
	}
	return modified, nil
}

func (r *ConversationRepository) Delete(_ context.Context, id string) (bool, error) {
	deleted := false
	err := r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(conversationsBucket)
		if b.Get([]byte(id)) == nil {
			return nil
		}
		deleted = true
		return b.Delete([]byte(id))
	})
	if err != nil {
		return false, fmt.Errorf("delete conversation: %w", err)
	}
	return deleted, nil
}

func (r *ConversationRepository) Close(_ context.Context) error {
	return r.db.Close()
}

func get(b *bolt.Bucket, id string) (*chatModels.Conversation, error) {
	v := b.Get([]byte(id))
	if v == nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
	}
	var conv chatModels.Conversation
	if err := json.Unmarshal(v, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}
	if conv.Messages == nil {
		conv.Messages = []chatModels.Message{}
	}
	return &conv, nil
}

func put(b *bolt.Bucket, conv *chatModels.Conversation) error {
	enc, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return b.Put([]byte(conv.ID), enc)
}
