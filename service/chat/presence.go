package chat

import (
	"context"
	"time"

	"ChatLink/logger"
	"ChatLink/service/storage"
	"ChatLink/tools/safe"
)

// PresenceWriter is the slice of the user store the presence manager needs.
type PresenceWriter interface {
	UpdatePresence(ctx context.Context, userID string, online bool, at time.Time) error
}

// PresenceManager persists the online/offline flag and last-seen timestamp
// derived from registry membership. Writes are fire-and-forget with a
// bounded timeout: admission and teardown never wait on them, and a failed
// write is logged and swallowed, never surfaced to a client.
type PresenceManager struct {
	users   PresenceWriter
	nodeID  string
	ttl     time.Duration
	timeout time.Duration

	now func() time.Time // injectable clock for tests

	mirrorOnline  func(ctx context.Context, user, nodeID string, ttl time.Duration) error
	mirrorOffline func(ctx context.Context, user string) error
}

func NewPresenceManager(users PresenceWriter, nodeID string, ttl, timeout time.Duration) *PresenceManager {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PresenceManager{
		users:         users,
		nodeID:        nodeID,
		ttl:           ttl,
		timeout:       timeout,
		now:           time.Now,
		mirrorOnline:  storage.PresenceOnline,
		mirrorOffline: storage.PresenceOffline,
	}
}

// Online marks the user online after a successful registration.
func (p *PresenceManager) Online(userID string) {
	safe.Go(func() { p.write(userID, true) })
}

// Offline marks the user offline after a successful deregistration.
func (p *PresenceManager) Offline(userID string) {
	safe.Go(func() { p.write(userID, false) })
}

func (p *PresenceManager) write(userID string, online bool) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	at := p.now()
	if err := p.users.UpdatePresence(ctx, userID, online, at); err != nil {
		logger.Errorf("[presence] persist user=%s online=%v err=%v", userID, online, err)
	}

	// Mirror failures are even less interesting: the Mongo record is the
	// system of record, the key just ages out.
	var err error
	if online {
		err = p.mirrorOnline(ctx, userID, p.nodeID, p.ttl)
	} else {
		err = p.mirrorOffline(ctx, userID)
	}
	if err != nil {
		logger.Warnf("[presence] mirror user=%s online=%v err=%v", userID, online, err)
	}
}
