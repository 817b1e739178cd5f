package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
)

const conversationsCollection = "conversations"

type messageDoc struct {
	Role      string    `bson:"role"`
	Content   string    `bson:"content"`
	Timestamp time.Time `bson:"timestamp"`
}

type conversationDoc struct {
	ID           bson.ObjectID `bson:"_id"`
	Title        string        `bson:"title"`
	Messages     []messageDoc  `bson:"messages"`
	SystemPrompt string        `bson:"system_prompt"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

// ConversationRepository stores one document per conversation with messages embedded
type ConversationRepository struct {
	client              *mongo.Client
	collection          *mongo.Collection
	defaultSystemPrompt string
	logger              *slog.Logger
}

var _ chatRepo.ConversationRepository = (*ConversationRepository)(nil)

// Connect dials MongoDB, verifies the connection and ensures indexes exist
func Connect(ctx context.Context, uri, database, defaultSystemPrompt string, logger *slog.Logger) (*ConversationRepository, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	repo := &ConversationRepository{
		client:              client,
		collection:          client.Database(database).Collection(conversationsCollection),
		defaultSystemPrompt: defaultSystemPrompt,
		logger:              logger,
	}

	if _, err := repo.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info("connected to MongoDB", "database", database)
	return repo, nil
}

func (r *ConversationRepository) Create(ctx context.Context, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = r.defaultSystemPrompt
	}
	now := time.Now().UTC()
	doc := conversationDoc{
		ID:           bson.NewObjectID(),
		Messages:     []messageDoc{},
		SystemPrompt: systemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (*chatModels.Conversation, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}

	var doc conversationDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return doc.toModel(), nil
}

func (r *ConversationRepository) ListSummaries(ctx context.Context) ([]chatModels.ConversationSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"messages": 0, "system_prompt": 0})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	var docs []conversationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %w", err)
	}

	summaries := make([]chatModels.ConversationSummary, 0, len(docs))
	for i := range docs {
		summaries = append(summaries, chatModels.ConversationSummary{
			ID:        docs[i].ID.Hex(),
			Title:     docs[i].Title,
			CreatedAt: docs[i].CreatedAt,
			UpdatedAt: docs[i].UpdatedAt,
		})
	}
	return summaries, nil
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, id string, role chatModels.Role, content string) error {
	if !role.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid message role %q", role)}
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return notFound(id)
	}

	now := time.Now().UTC()
	// $max keeps updated_at monotonic under clock skew between app instances
	update := bson.M{
		"$push": bson.M{"messages": messageDoc{Role: string(role), Content: content, Timestamp: now}},
		"$max":  bson.M{"updated_at": now},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	if result.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (r *ConversationRepository) SetTitle(ctx context.Context, id, title string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return notFound(id)
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"title": title}})
	if err != nil {
		return fmt.Errorf("failed to set title: %w", err)
	}
	if result.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (r *ConversationRepository) SetSystemPrompt(ctx context.Context, id, systemPrompt string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"system_prompt": systemPrompt}})
	if err != nil {
		return false, fmt.Errorf("failed to update system prompt: %w", err)
	}
	// an unchanged prompt matches but is not modified
	return result.ModifiedCount > 0, nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *ConversationRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (d *conversationDoc) toModel() *chatModels.Conversation {
	messages := make([]chatModels.Message, 0, len(d.Messages))
	for _, m := range d.Messages {
		messages = append(messages, chatModels.Message{
			Role:      chatModels.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	return &chatModels.Conversation{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Messages:     messages,
		SystemPrompt: d.SystemPrompt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func notFound(id string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("conversation %s not found", id)}
}
