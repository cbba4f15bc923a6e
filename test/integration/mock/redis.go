package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis is an in-process Redis server that scenarios can take down and bring
// back up.
type Redis struct {
	Client  *redis.Client
	server  *miniredis.Miniredis
	stopped bool
}

func NewRedis() *Redis {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}

		redisMock = &Redis{
			Client: redis.NewClient(&redis.Options{
				Addr:       server.Addr(),
				MaxRetries: -1,
			}),
			server: server,
		}
	})

	return redisMock
}

// Stop closes the server. Clients start failing immediately.
func (r *Redis) Stop() {
	r.server.Close()
	r.stopped = true
}

// Reset restarts a stopped server and drops every key.
func (r *Redis) Reset() error {
	if r.stopped {
		if err := r.server.Restart(); err != nil {
			return err
		}
		r.stopped = false
	}
	r.server.FlushAll()
	return r.Client.Ping(context.Background()).Err()
}

// Keys returns the stored keys that start with prefix.
func (r *Redis) Keys(prefix string) []string {
	var keys []string
	for _, k := range r.server.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
