package chat

import (
	"encoding/json"
	"fmt"
	"time"

	chatmodel "ChatLink/module/chat/model"
)

// Inbound events.
const (
	EventJoin        = "join"
	EventChatMessage = "chat-message"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
)

// Outbound events.
const (
	EventNewMessage     = "new-message"
	EventMessageSent    = "message-sent"
	EventMessageError   = "message-error"
	EventUserTyping     = "user-typing"
	EventUserStopTyping = "user-stop-typing"
)

// Frame is the wire envelope: {"event": "...", "data": {...}}.
// Payloads stay untyped here; handlers decode them into the structs below.
type Frame struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	f := &Frame{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("unmarshal frame failed: %w", err)
	}
	if f.Event == "" {
		return nil, fmt.Errorf("frame has no event")
	}
	return f, nil
}

func EncodeFrame(event string, data any) ([]byte, error) {
	return json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{Event: event, Data: data})
}

// ---- inbound payloads ----

type ChatMessagePayload struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

type TypingPayload struct {
	ReceiverID string `json:"receiverId"`
}

// ---- outbound payloads ----

// UserRef is the resolved (id, display name) pair attached to enriched
// message events.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MessageEvent is the enriched stored message, shared by new-message,
// message-sent and the history endpoint.
type MessageEvent struct {
	ID        string    `json:"id"`
	Sender    UserRef   `json:"sender"`
	Receiver  UserRef   `json:"receiver"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}

func BuildMessageEvent(m *chatmodel.Message, sender, receiver UserRef) MessageEvent {
	return MessageEvent{
		ID:        m.MsgID,
		Sender:    sender,
		Receiver:  receiver,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		CreatedAt: m.CreateTime,
	}
}

type MessageErrorPayload struct {
	Message string `json:"message"`
}

type UserTypingPayload struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
}

type UserStopTypingPayload struct {
	SenderID string `json:"senderId"`
}
