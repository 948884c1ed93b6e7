package chat

// Relay forwards transient typing signals between live sessions. Nothing
// here is persisted or acknowledged: a signal whose recipient has no live
// session is dropped on the floor, and that is the contract.
type Relay struct {
	registry *Registry
}

func NewRelay(registry *Registry) *Relay {
	return &Relay{registry: registry}
}

func (r *Relay) Typing(sess *Session, p *TypingPayload) {
	recv, ok := r.registry.Lookup(p.ReceiverID)
	if !ok {
		return
	}
	_ = recv.Push(EventUserTyping, UserTypingPayload{
		SenderID:   sess.Identity.UserID,
		SenderName: sess.Identity.Name,
	})
}

func (r *Relay) StopTyping(sess *Session, p *TypingPayload) {
	recv, ok := r.registry.Lookup(p.ReceiverID)
	if !ok {
		return
	}
	_ = recv.Push(EventUserStopTyping, UserStopTypingPayload{
		SenderID: sess.Identity.UserID,
	})
}
