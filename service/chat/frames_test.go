package chat

import (
	"testing"
	"time"

	chatmodel "ChatLink/module/chat/model"

	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	f, err := ParseFrame([]byte(`{"event":"chat-message","data":{"receiverId":"u2","content":"hi"}}`))
	require.NoError(t, err)
	require.Equal(t, EventChatMessage, f.Event)
	require.Equal(t, "u2", f.Data["receiverId"])

	_, err = ParseFrame([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseFrame([]byte(`{"data":{}}`))
	require.Error(t, err, "event is mandatory")
}

func TestBuildMessageEvent(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	m := &chatmodel.Message{
		MsgID:      "m1",
		SenderID:   "u1",
		RecvID:     "u2",
		Content:    "hello",
		Timestamp:  now,
		CreateTime: now,
	}
	evt := BuildMessageEvent(m,
		UserRef{ID: "u1", Name: "Alice"},
		UserRef{ID: "u2", Name: "Bob"},
	)
	require.Equal(t, "m1", evt.ID)
	require.Equal(t, "Alice", evt.Sender.Name)
	require.Equal(t, "Bob", evt.Receiver.Name)
	require.Equal(t, now, evt.Timestamp)
	require.Equal(t, now, evt.CreatedAt)
}

func TestSessionPushDropsWhenFull(t *testing.T) {
	s := testSession("u1", "Alice")
	for i := 0; i < sendQueueSize; i++ {
		require.NoError(t, s.Push(EventMessageSent, MessageErrorPayload{Message: "x"}))
	}
	// queue full now; the push is dropped, not blocked
	done := make(chan struct{})
	go func() {
		_ = s.Push(EventMessageSent, MessageErrorPayload{Message: "overflow"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a full queue")
	}
	require.Len(t, s.send, sendQueueSize)
}
