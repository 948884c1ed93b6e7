package storage

import (
	"context"
	"time"

	perrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

var rdb *redis.Client

func InitRedis(c Config) error {
	rdb = redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	return perrors.Wrap(rdb.Ping(context.Background()).Err(), "redis ping")
}

// presence key: chat:presence:<user>. The value is the node id; the TTL is
// the online validity window. Mongo's user document stays the system of
// record; this key is a fast-path mirror for liveness checks.
func presenceKey(user string) string { return "chat:presence:" + user }

func PresenceOnline(ctx context.Context, user, nodeID string, ttl time.Duration) error {
	if rdb == nil {
		return perrors.New("redis not initialized")
	}
	return perrors.Wrap(rdb.Set(ctx, presenceKey(user), nodeID, ttl).Err(), "presence set")
}

func PresenceOffline(ctx context.Context, user string) error {
	if rdb == nil {
		return perrors.New("redis not initialized")
	}
	return perrors.Wrap(rdb.Del(ctx, presenceKey(user)).Err(), "presence del")
}

func PresenceLookup(ctx context.Context, user string) (nodeID string, online bool, err error) {
	if rdb == nil {
		return "", false, perrors.New("redis not initialized")
	}
	val, err := rdb.Get(ctx, presenceKey(user)).Result()
	if perrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, perrors.Wrap(err, "presence get")
	}
	return val, true, nil
}
