package chat

import (
	"context"
	"testing"
	"time"

	usermodel "ChatLink/module/user/model"

	perrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T, msgs *fakeMsgs, users *fakeUsers) (*Dispatcher, *Registry) {
	t.Helper()
	r := NewRegistry()
	d := NewDispatcher(r, msgs, users, time.Second)
	d.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return d, r
}

// Offline recipient: content is trimmed, stored, acknowledged; no fan-out.
func TestDispatchReceiverOffline(t *testing.T) {
	msgs := &fakeMsgs{}
	users := newFakeUsers(&usermodel.User{UserID: "u2", Name: "Bob"})
	d, _ := newTestDispatcher(t, msgs, users)

	sender := testSession("u1", "Alice")
	d.HandleChatMessage(context.Background(), sender, &ChatMessagePayload{
		ReceiverID: "u2", Content: "  hi ",
	})

	require.Equal(t, 1, msgs.count())
	require.Equal(t, "hi", msgs.inserted[0].Content, "stored content is trimmed")

	f := takeFrame(t, sender)
	require.Equal(t, EventMessageSent, f.Event)
	evt := decodeData[MessageEvent](t, f)
	require.Equal(t, "hi", evt.Content)
	require.Equal(t, msgs.inserted[0].MsgID, evt.ID)
	require.Equal(t, UserRef{ID: "u1", Name: "Alice"}, evt.Sender)
	require.Equal(t, UserRef{ID: "u2", Name: "Bob"}, evt.Receiver, "offline name comes from the store")
	requireNoFrame(t, sender)
}

// Online recipient: exactly one new-message and one message-sent, same id.
func TestDispatchReceiverOnline(t *testing.T) {
	msgs := &fakeMsgs{}
	users := newFakeUsers()
	d, r := newTestDispatcher(t, msgs, users)

	sender := testSession("u1", "Alice")
	receiver := testSession("u2", "Bob")
	r.Register(receiver)

	d.HandleChatMessage(context.Background(), sender, &ChatMessagePayload{
		ReceiverID: "u2", Content: "hello",
	})

	rf := takeFrame(t, receiver)
	require.Equal(t, EventNewMessage, rf.Event)
	recvEvt := decodeData[MessageEvent](t, rf)
	require.Equal(t, "hello", recvEvt.Content)
	require.Equal(t, "u1", recvEvt.Sender.ID)
	require.Equal(t, UserRef{ID: "u2", Name: "Bob"}, recvEvt.Receiver, "online name comes from the session")
	requireNoFrame(t, receiver)

	sf := takeFrame(t, sender)
	require.Equal(t, EventMessageSent, sf.Event)
	sentEvt := decodeData[MessageEvent](t, sf)
	require.Equal(t, recvEvt.ID, sentEvt.ID, "ack carries the identical message identity")
	requireNoFrame(t, sender)
}

func TestDispatchValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload ChatMessagePayload
	}{
		{"empty content", ChatMessagePayload{ReceiverID: "u2", Content: ""}},
		{"whitespace content", ChatMessagePayload{ReceiverID: "u2", Content: "   \t "}},
		{"empty receiver", ChatMessagePayload{ReceiverID: "", Content: "hi"}},
		{"malformed receiver", ChatMessagePayload{ReceiverID: "no spaces allowed", Content: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msgs := &fakeMsgs{}
			d, _ := newTestDispatcher(t, msgs, newFakeUsers())

			sender := testSession("u1", "Alice")
			d.HandleChatMessage(context.Background(), sender, &tc.payload)

			require.Equal(t, 0, msgs.count(), "nothing persisted on validation failure")
			f := takeFrame(t, sender)
			require.Equal(t, EventMessageError, f.Event)
			requireNoFrame(t, sender)
		})
	}
}

func TestDispatchPersistenceFailure(t *testing.T) {
	msgs := &fakeMsgs{insErr: perrors.New("mongo down")}
	d, r := newTestDispatcher(t, msgs, newFakeUsers())

	sender := testSession("u1", "Alice")
	receiver := testSession("u2", "Bob")
	r.Register(receiver)

	d.HandleChatMessage(context.Background(), sender, &ChatMessagePayload{
		ReceiverID: "u2", Content: "hello",
	})

	f := takeFrame(t, sender)
	require.Equal(t, EventMessageError, f.Event)
	errEvt := decodeData[MessageErrorPayload](t, f)
	require.Equal(t, "failed to send message", errEvt.Message)
	requireNoFrame(t, sender)

	requireNoFrame(t, receiver)
}

// A receiver the store has never heard of still gets the message persisted
// and acknowledged; enrichment falls back to the raw id.
func TestDispatchUnknownReceiverStillStored(t *testing.T) {
	msgs := &fakeMsgs{}
	d, _ := newTestDispatcher(t, msgs, newFakeUsers())

	sender := testSession("u1", "Alice")
	d.HandleChatMessage(context.Background(), sender, &ChatMessagePayload{
		ReceiverID: "u9", Content: "hello",
	})

	require.Equal(t, 1, msgs.count())
	f := takeFrame(t, sender)
	require.Equal(t, EventMessageSent, f.Event)
	evt := decodeData[MessageEvent](t, f)
	require.Equal(t, UserRef{ID: "u9", Name: "u9"}, evt.Receiver)
}

func TestValidIdentityRef(t *testing.T) {
	require.True(t, validIdentityRef("748508987506704384"))
	require.True(t, validIdentityRef("u2"))
	require.True(t, validIdentityRef("user_10-a"))
	require.False(t, validIdentityRef(""))
	require.False(t, validIdentityRef("has space"))
	require.False(t, validIdentityRef("semi;colon"))
	require.False(t, validIdentityRef(string(make([]byte, 65))))
}
