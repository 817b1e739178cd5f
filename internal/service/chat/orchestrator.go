package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"aichat/internal/config"
	"aichat/internal/domain"
	chatModels "aichat/internal/domain/models/chat"
	chatRepo "aichat/internal/domain/repositories/chat"
	chatSvc "aichat/internal/domain/services/chat"
	"aichat/internal/metrics"
)

// Orchestrator implements the ChatService interface
type Orchestrator struct {
	repo     chatRepo.ConversationRepository
	streamer chatSvc.ResponseStreamer
	titles   chatSvc.TitleGenerator
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// in-flight turns; Drain waits on it so shutdown never closes the store mid-persist
	inflight sync.WaitGroup
}

var _ chatSvc.ChatService = (*Orchestrator)(nil)

// NewOrchestrator creates a new chat orchestrator
func NewOrchestrator(
	repo chatRepo.ConversationRepository,
	streamer chatSvc.ResponseStreamer,
	titles chatSvc.TitleGenerator,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		repo:     repo,
		streamer: streamer,
		titles:   titles,
		metrics:  m,
		logger:   logger,
	}
}

// HandleTurn runs everything up to the first event synchronously, then streams the reply
// from a goroutine. The goroutine outlives ctx: if the client goes away, forwarding stops
// but the reply is still drained and persisted.
func (o *Orchestrator) HandleTurn(ctx context.Context, req *chatSvc.TurnRequest) (*chatSvc.Turn, error) {
	start := time.Now()

	if err := o.validateTurnRequest(req); err != nil {
		o.metrics.TurnRejected()
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	override := ""
	if req.SystemPrompt != nil {
		override = *req.SystemPrompt
	}

	// only an absent or empty id starts a new conversation; a blank one is looked up and fails
	conversationID := ""
	if req.ConversationID != nil {
		conversationID = *req.ConversationID
	}
	if conversationID == "" {
		id, err := o.repo.Create(ctx, override)
		if err != nil {
			o.metrics.TurnFailed()
			return nil, err
		}
		conversationID = id
		o.logger.Info("conversation created", "conversation_id", id)
	}

	conv, err := o.repo.Get(ctx, conversationID)
	if err != nil {
		o.metrics.TurnRejected()
		return nil, err
	}
	untitled := conv.Title == ""

	if err := o.repo.AppendMessage(ctx, conversationID, chatModels.RoleUser, req.Message); err != nil {
		o.metrics.TurnFailed()
		return nil, err
	}

	if untitled {
		title := o.titles.Generate(ctx, req.Message)
		if err := o.repo.SetTitle(ctx, conversationID, title); err != nil {
			o.logger.Warn("failed to set conversation title",
				"conversation_id", conversationID,
				"error", err,
			)
		}
	}

	conv, err = o.repo.Get(ctx, conversationID)
	if err != nil {
		o.metrics.TurnFailed()
		return nil, err
	}

	systemPrompt := conv.SystemPrompt
	if override != "" {
		systemPrompt = override
	}

	events := make(chan chatModels.TurnEvent)
	o.inflight.Add(1)
	go o.stream(ctx, conversationID, conv.Messages, systemPrompt, events, start)

	return &chatSvc.Turn{
		ConversationID: conversationID,
		Events:         events,
	}, nil
}

func (o *Orchestrator) stream(
	ctx context.Context,
	conversationID string,
	history []chatModels.Message,
	systemPrompt string,
	events chan<- chatModels.TurnEvent,
	start time.Time,
) {
	defer o.inflight.Done()
	defer close(events)

	bg := context.WithoutCancel(ctx)
	connected := true
	emit := func(ev chatModels.TurnEvent) {
		if !connected {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			connected = false
			o.logger.Info("client disconnected, finishing turn in background",
				"conversation_id", conversationID,
			)
		}
	}

	emit(chatModels.NewConversationIDEvent(conversationID))

	var reply strings.Builder
	fragments := 0
	for fragment := range o.streamer.Stream(bg, history, systemPrompt) {
		reply.WriteString(fragment)
		fragments++
		o.metrics.Fragment()
		emit(chatModels.NewMessageEvent(fragment))
	}

	if err := o.repo.AppendMessage(bg, conversationID, chatModels.RoleAssistant, reply.String()); err != nil {
		o.metrics.TurnFailed()
		o.logger.Error("failed to persist assistant message",
			"conversation_id", conversationID,
			"error", err,
		)
	} else {
		o.metrics.TurnCompleted(time.Since(start))
	}

	o.logger.Debug("turn complete",
		"conversation_id", conversationID,
		"fragments", fragments,
		"reply_length", reply.Len(),
		"client_connected", connected,
	)

	emit(chatModels.NewDoneEvent())
}

// Drain blocks until every in-flight turn has persisted its reply, or ctx is done.
func (o *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) validateTurnRequest(req *chatSvc.TurnRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Message,
			validation.Required,
			validation.RuneLength(1, config.MaxMessageLength),
		),
		validation.Field(&req.SystemPrompt,
			validation.RuneLength(0, config.MaxSystemPromptLength),
		),
	)
}
