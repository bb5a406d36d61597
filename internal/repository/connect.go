package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConnectRedis dials the schema-cache redis and pings it until it answers,
// doubling the wait between attempts. The wiring treats a failure here as
// cache-off, not fatal.
func ConnectRedis(ctx context.Context, addr string, password string, attempts int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	var err error
	for attempt := range attempts {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			log.Info().Dur("wait", wait).Int("attempt", attempt+1).Msg("Retrying schema cache connection")
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		if err = client.Ping(ctx).Err(); err == nil {
			log.Info().Str("addr", addr).Msg("Schema cache connected")
			return client, nil
		}
		log.Warn().Err(err).Str("addr", addr).Msg("Schema cache ping failed")
	}

	_ = client.Close()
	return nil, fmt.Errorf("redis unreachable after %d attempts: %w", attempts, err)
}
