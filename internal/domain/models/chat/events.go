package chat

// SSE event names emitted for a turn
const (
	EventConversationID = "conversation_id"
	EventMessage        = "message"
	EventDone           = "done"
)

// StatusComplete is the payload status of the terminal done event
const StatusComplete = "complete"

// TurnEvent is one server-push event of a chat turn.
// Data is JSON-encoded by the transport.
type TurnEvent struct {
	Name string
	Data interface{}
}

// ConversationIDData is the payload of the conversation_id event
type ConversationIDData struct {
	ConversationID string `json:"conversation_id"`
}

// MessageData is the payload of a message (content fragment) event
type MessageData struct {
	Content string `json:"content"`
}

// DoneData is the payload of the terminal done event
type DoneData struct {
	Status string `json:"status"`
}

// NewConversationIDEvent builds the stream-start event
func NewConversationIDEvent(conversationID string) TurnEvent {
	return TurnEvent{Name: EventConversationID, Data: ConversationIDData{ConversationID: conversationID}}
}

// NewMessageEvent builds a content fragment event
func NewMessageEvent(content string) TurnEvent {
	return TurnEvent{Name: EventMessage, Data: MessageData{Content: content}}
}

// NewDoneEvent builds the terminal event
func NewDoneEvent() TurnEvent {
	return TurnEvent{Name: EventDone, Data: DoneData{Status: StatusComplete}}
}
