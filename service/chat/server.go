package chat

import (
	"time"

	"github.com/gorilla/websocket"
)

// ServerConf collects the tunables of the gateway's live-session path.
type ServerConf struct {
	NodeID         string
	AllowedOrigins []string

	HandshakeTimeout time.Duration
	StoreTimeout     time.Duration
	PresenceTTL      time.Duration
}

// Server wires the handshake gate, registry, presence manager, dispatcher
// and relay together and owns the WebSocket endpoint.
type Server struct {
	conf     ServerConf
	gate     *Gate
	registry *Registry
	presence *PresenceManager
	disp     *Dispatcher
	relay    *Relay
	upgrader websocket.Upgrader
}

// Stores is what the server needs from persistence: the user store for
// handshake lookup and presence writes, the message store for dispatch.
type Stores struct {
	Users interface {
		UserFinder
		PresenceWriter
	}
	Messages MessageStore
}

func NewServer(conf ServerConf, gate *Gate, st Stores) *Server {
	registry := NewRegistry()
	return &Server{
		conf:     conf,
		gate:     gate,
		registry: registry,
		presence: NewPresenceManager(st.Users, conf.NodeID, conf.PresenceTTL, conf.StoreTimeout),
		disp:     NewDispatcher(registry, st.Messages, st.Users, conf.StoreTimeout),
		relay:    NewRelay(registry),
		upgrader: newUpgrader(conf.AllowedOrigins),
	}
}

func (s *Server) Registry() *Registry { return s.registry }
