package cache

import (
	"context"
	"fmt"

	redis_store "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// O is the shared overlay store, backed by redis when configured. View
// snapshots written here carry a 24-hour expiration so that multiple
// edge instances can warm from each other without ever serving state
// older than a day. Nil when cache.redis_addr is unset.
var O *redis_store.RedisStore

func NewOverlay() error {
	addr := viper.GetString("cache.redis_addr")
	if len(addr) == 0 {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("cache.redis_password"),
		DB:       viper.GetInt("cache.redis_db"),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to reach redis overlay: %v", err)
	}

	O = redis_store.NewRedis(client)
	return nil
}
