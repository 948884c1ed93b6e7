package chat

import (
	"context"
	"strings"
	"time"

	"ChatLink/logger"
	chatmodel "ChatLink/module/chat/model"
	"ChatLink/tools/ids"
)

// MessageStore is the slice of the message store the dispatcher needs.
type MessageStore interface {
	Insert(ctx context.Context, msg *chatmodel.Message) error
}

// Dispatcher handles chat-message events: validate, persist, fan out to
// the recipient's live session if any, and always acknowledge the sender.
// Persistence strictly precedes fan-out; a message that was not durably
// written is never delivered to anyone.
type Dispatcher struct {
	registry *Registry
	msgs     MessageStore
	users    UserFinder
	timeout  time.Duration

	now func() time.Time
}

func NewDispatcher(registry *Registry, msgs MessageStore, users UserFinder, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Dispatcher{
		registry: registry,
		msgs:     msgs,
		users:    users,
		timeout:  timeout,
		now:      time.Now,
	}
}

// HandleChatMessage processes one inbound message from an admitted session.
// Every failure is reported to the sender only; the connection stays live.
func (d *Dispatcher) HandleChatMessage(ctx context.Context, sess *Session, p *ChatMessagePayload) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		_ = sess.Push(EventMessageError, MessageErrorPayload{Message: "message content is empty"})
		return
	}
	if !validIdentityRef(p.ReceiverID) {
		_ = sess.Push(EventMessageError, MessageErrorPayload{Message: "invalid receiver id"})
		return
	}

	now := d.now()
	msg := &chatmodel.Message{
		MsgID:      ids.GenerateString(),
		SenderID:   sess.Identity.UserID,
		RecvID:     p.ReceiverID,
		Content:    content,
		Timestamp:  now,
		CreateTime: now,
	}

	sctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.msgs.Insert(sctx, msg); err != nil {
		logger.Errorf("[dispatch] insert msg=%s sender=%s err=%v", msg.MsgID, msg.SenderID, err)
		_ = sess.Push(EventMessageError, MessageErrorPayload{Message: "failed to send message"})
		return
	}

	recvSess, online := d.registry.Lookup(p.ReceiverID)
	evt := BuildMessageEvent(msg,
		UserRef{ID: sess.Identity.UserID, Name: sess.Identity.Name},
		d.receiverRef(sctx, p.ReceiverID, recvSess),
	)

	// Fan-out only after the durable write, and at most once. An offline
	// recipient is not an error; the message waits on the history path.
	if online {
		_ = recvSess.Push(EventNewMessage, evt)
	}

	// The sender gets a confirmation no matter what the recipient's
	// presence looked like.
	_ = sess.Push(EventMessageSent, evt)
}

// receiverRef resolves the recipient's display name: from their live
// session when online, from the user store otherwise. A recipient the
// store cannot resolve keeps the raw id as name; the message is already
// persisted at this point and enrichment is cosmetic.
func (d *Dispatcher) receiverRef(ctx context.Context, receiverID string, recvSess *Session) UserRef {
	if recvSess != nil {
		return UserRef{ID: recvSess.Identity.UserID, Name: recvSess.Identity.Name}
	}
	u, err := d.users.FindByID(ctx, receiverID)
	if err != nil {
		logger.Warnf("[dispatch] resolve receiver=%s err=%v", receiverID, err)
		return UserRef{ID: receiverID, Name: receiverID}
	}
	return UserRef{ID: u.UserID, Name: u.Name}
}

// validIdentityRef accepts the id shapes this system issues (snowflake
// digits, legacy alphanumeric ids) and rejects anything with whitespace,
// punctuation or unreasonable length.
func validIdentityRef(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
