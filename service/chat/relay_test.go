package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypingForwardedWhenOnline(t *testing.T) {
	r := NewRegistry()
	relay := NewRelay(r)

	sender := testSession("u1", "Alice")
	receiver := testSession("u2", "Bob")
	r.Register(receiver)

	relay.Typing(sender, &TypingPayload{ReceiverID: "u2"})

	f := takeFrame(t, receiver)
	require.Equal(t, EventUserTyping, f.Event)
	p := decodeData[UserTypingPayload](t, f)
	require.Equal(t, "u1", p.SenderID)
	require.Equal(t, "Alice", p.SenderName)
}

func TestTypingDroppedWhenOffline(t *testing.T) {
	r := NewRegistry()
	relay := NewRelay(r)

	sender := testSession("u1", "Alice")
	relay.Typing(sender, &TypingPayload{ReceiverID: "u2"})
	relay.StopTyping(sender, &TypingPayload{ReceiverID: "u2"})

	// no error, no echo back to the sender
	requireNoFrame(t, sender)
}

func TestStopTypingCarriesSenderIDOnly(t *testing.T) {
	r := NewRegistry()
	relay := NewRelay(r)

	sender := testSession("u1", "Alice")
	receiver := testSession("u2", "Bob")
	r.Register(receiver)

	relay.StopTyping(sender, &TypingPayload{ReceiverID: "u2"})

	f := takeFrame(t, receiver)
	require.Equal(t, EventUserStopTyping, f.Event)
	p := decodeData[UserStopTypingPayload](t, f)
	require.Equal(t, "u1", p.SenderID)
}
