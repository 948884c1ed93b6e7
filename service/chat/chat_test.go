package chat

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	chatmodel "ChatLink/module/chat/model"
	usermodel "ChatLink/module/user/model"
	"ChatLink/tools/errs"

	"github.com/stretchr/testify/require"
)

// fakeUsers is an in-memory user store covering UserFinder and
// PresenceWriter.
type fakeUsers struct {
	mu       sync.Mutex
	byID     map[string]*usermodel.User
	presence []presenceCall
	updated  chan struct{}
}

type presenceCall struct {
	userID string
	online bool
	at     time.Time
}

func newFakeUsers(users ...*usermodel.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*usermodel.User{}, updated: make(chan struct{}, 16)}
	for _, u := range users {
		f.byID[u.UserID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, userID string) (*usermodel.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[userID]; ok {
		return u, nil
	}
	return nil, errs.ErrUserNotFound.WithDetail(userID)
}

func (f *fakeUsers) UpdatePresence(_ context.Context, userID string, online bool, at time.Time) error {
	f.mu.Lock()
	f.presence = append(f.presence, presenceCall{userID: userID, online: online, at: at})
	f.mu.Unlock()
	f.updated <- struct{}{}
	return nil
}

func (f *fakeUsers) lastPresence(t *testing.T) presenceCall {
	t.Helper()
	select {
	case <-f.updated:
	case <-time.After(2 * time.Second):
		t.Fatal("no presence write observed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presence[len(f.presence)-1]
}

// fakeMsgs records inserts and can be told to fail.
type fakeMsgs struct {
	mu       sync.Mutex
	inserted []*chatmodel.Message
	insErr   error
}

func (f *fakeMsgs) Insert(_ context.Context, msg *chatmodel.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insErr != nil {
		return f.insErr
	}
	f.inserted = append(f.inserted, msg)
	return nil
}

func (f *fakeMsgs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

// testSession builds a session without a socket; pushed frames pile up in
// the send queue where tests can read them back.
func testSession(userID, name string) *Session {
	return newSession("conn-"+userID, Identity{UserID: userID, Name: name}, nil)
}

type pushedFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func takeFrame(t *testing.T, s *Session) pushedFrame {
	t.Helper()
	select {
	case raw := <-s.send:
		var f pushedFrame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	default:
		t.Fatal("no frame queued")
		return pushedFrame{}
	}
}

func requireNoFrame(t *testing.T, s *Session) {
	t.Helper()
	select {
	case raw := <-s.send:
		t.Fatalf("unexpected frame queued: %s", raw)
	default:
	}
}

func decodeData[T any](t *testing.T, f pushedFrame) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(f.Data, &out))
	return out
}
