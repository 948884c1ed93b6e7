package global

import (
	"os"
	"strings"
	"time"

	"ChatLink/tools/ids"
	"ChatLink/tools/security"
)

// Config carries everything the gateway needs at boot. Values come from the
// environment with local-dev defaults.
type Config struct {
	ListenAddr string

	JWTSecret []byte

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string

	// HandshakeTimeout bounds credential verification at admission time;
	// StoreTimeout bounds every persistence write issued from the event path.
	HandshakeTimeout time.Duration
	StoreTimeout     time.Duration

	// PresenceTTL is the lifetime of the Redis presence mirror key.
	PresenceTTL time.Duration
}

func Load() Config {
	return Config{
		ListenAddr: envOr("LISTEN_ADDR", ":5000"),

		JWTSecret: []byte(envOr("JWT_SECRET", "dev-only-secret")),

		MongoURI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envOr("MONGO_DATABASE", "chatlink"),

		RedisAddr:     envOr("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       0,

		AllowedOrigins: splitCSV(envOr("ALLOWED_ORIGINS", "http://localhost:5173")),

		HandshakeTimeout: 5 * time.Second,
		StoreTimeout:     3 * time.Second,

		PresenceTTL: 2 * time.Minute,
	}
}

func (c Config) JWTOptions() security.Options {
	return security.DefaultOptions(c.JWTSecret)
}

func ConfigIds() {
	ids.SetNodeID(100)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
