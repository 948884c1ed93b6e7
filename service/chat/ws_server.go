package chat

import (
	"net"
	"net/http"
	"strings"

	"ChatLink/logger"
	"ChatLink/tools/decode"
	"ChatLink/tools/errs"
	"ChatLink/tools/ids"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowedOrigins) == 0 {
				return true
			}
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
}

// HandleWS is the gateway endpoint. The credential travels out-of-band
// from the event stream: ?token= query param or Authorization header.
// Admission happens before the upgrade; a rejected attempt never touches
// the registry.
func (s *Server) HandleWS(c *gin.Context) {
	ident, err := s.gate.Admit(c.Request.Context(), bearerToken(c))
	if err != nil {
		logger.Infof("[ws] admission rejected: %v", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code": errs.CodeOf(err),
			"msg":  "authentication error",
		})
		return
	}

	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade error user=%s err=%v", ident.UserID, err)
		return
	}

	sess := newSession(ids.GenerateString(), ident, ws)
	go sess.writePump()

	s.registry.Register(sess)
	s.presence.Online(ident.UserID)
	logger.Infof("[ws] user connected user=%s name=%s conn=%s", ident.UserID, ident.Name, sess.ID)

	s.readLoop(c, sess, ws)

	// Teardown: compare-and-remove, then the offline transition — but only
	// if this session still owned the registry entry. A newer session for
	// the same user keeps both its entry and its online flag.
	if s.registry.Unregister(ident.UserID, sess) {
		s.presence.Offline(ident.UserID)
	}
	sess.close()
	logger.Infof("[ws] user disconnected user=%s conn=%s", ident.UserID, sess.ID)
}

// readLoop processes the session's events strictly in arrival order.
// Handlers run synchronously here; only presence writes leave this
// goroutine.
func (s *Server) readLoop(c *gin.Context, sess *Session, ws *websocket.Conn) {
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s err=%v", sess.ID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[ws] read timeout conn=%s err=%v", sess.ID, rerr)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", sess.ID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		f, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[ws] ParseFrame err conn=%s err=%v sample=%q", sess.ID, perr, sample)
			continue
		}

		s.handleFrame(c, sess, f)
	}
}

func (s *Server) handleFrame(c *gin.Context, sess *Session, f *Frame) {
	switch f.Event {
	case EventJoin:
		// The per-user broadcast scope is implicit in the registry entry;
		// joining is an explicit client ritual kept for protocol parity.
		logger.Infof("[ws] user=%s joined scope user_%s", sess.Identity.UserID, sess.Identity.UserID)

	case EventChatMessage:
		p, err := decode.DecodeMap[ChatMessagePayload](f.Data)
		if err != nil {
			_ = sess.Push(EventMessageError, MessageErrorPayload{Message: "invalid payload"})
			return
		}
		s.disp.HandleChatMessage(c.Request.Context(), sess, p)

	case EventTyping:
		if p, err := decode.DecodeMap[TypingPayload](f.Data); err == nil {
			s.relay.Typing(sess, p)
		}

	case EventStopTyping:
		if p, err := decode.DecodeMap[TypingPayload](f.Data); err == nil {
			s.relay.StopTyping(sess, p)
		}

	default:
		logger.Infof("[ws] no handler for event=%s conn=%s", f.Event, sess.ID)
	}
}

func bearerToken(c *gin.Context) string {
	if tok := strings.TrimSpace(c.Query("token")); tok != "" {
		return tok
	}
	authz := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}
