package chat

import (
	"sync"
	"time"

	"ChatLink/logger"

	"github.com/gorilla/websocket"
)

const (
	sendQueueSize = 64
	writeDeadline = 5 * time.Second
)

// Identity is the verified (user id, display name) pair produced once by
// the handshake gate. It is attached to the session for its whole lifetime
// and never mutated afterwards.
type Identity struct {
	UserID string
	Name   string
}

// Session binds one verified identity to one live connection. It owns a
// buffered outbound queue drained by a single writer goroutine, so event
// handlers never write to the socket directly.
type Session struct {
	ID       string // connection id, unique within the process
	Identity Identity

	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(id string, ident Identity, conn *websocket.Conn) *Session {
	return &Session{
		ID:       id,
		Identity: ident,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// Push encodes and enqueues an outbound event. A full queue means a slow
// client; the frame is dropped and logged rather than blocking the caller.
func (s *Session) Push(event string, data any) error {
	buf, err := EncodeFrame(event, data)
	if err != nil {
		return err
	}
	select {
	case s.send <- buf:
		return nil
	case <-s.done:
		return nil
	default:
		logger.Warnf("[session] send queue full, drop event=%s user=%s conn=%s",
			event, s.Identity.UserID, s.ID)
		return nil
	}
}

// writePump is the session's single writer. It exits when the session is
// closed; pending frames in flight at that point are abandoned.
func (s *Session) writePump() {
	for {
		select {
		case <-s.done:
			return
		case buf := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
				s.close()
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
				logger.Infof("[session] write failed user=%s conn=%s err=%v",
					s.Identity.UserID, s.ID, err)
				s.close()
				return
			}
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.conn != nil {
			_ = s.conn.Close()
		}
	})
}
