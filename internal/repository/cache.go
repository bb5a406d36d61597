package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CachedStore is a read-through cache in front of another Store. Cache
// failures are logged and ignored so Redis being down never breaks schema
// reads, they just get slower.
type CachedStore struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(store Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		store:  store,
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(name, version string) string {
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("schema:%s@%s", name, version)
}

func (c *CachedStore) Get(ctx context.Context, name, version string) (*SchemaDefinition, error) {
	key := cacheKey(name, version)

	cached, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var def SchemaDefinition
		if err := json.Unmarshal(cached, &def); err == nil {
			log.Debug().Str("key", key).Msg("Schema cache hit")
			return &def, nil
		}
		log.Warn().Str("key", key).Msg("Discarding unparseable cache entry")
	} else if err != redis.Nil {
		log.Warn().Err(err).Str("key", key).Msg("Schema cache read failed")
	}

	def, err := c.store.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(def); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Schema cache write failed")
		}
	}

	return def, nil
}

func (c *CachedStore) Create(ctx context.Context, in SchemaCreate) (*SchemaDefinition, error) {
	def, err := c.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, in.Name)

	return def, nil
}

func (c *CachedStore) Update(ctx context.Context, name string, in SchemaUpdate) (*SchemaDefinition, error) {
	def, err := c.store.Update(ctx, name, in)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, name)

	return def, nil
}

func (c *CachedStore) Delete(ctx context.Context, name string) error {
	if err := c.store.Delete(ctx, name); err != nil {
		return err
	}

	c.invalidate(ctx, name)

	return nil
}

func (c *CachedStore) List(ctx context.Context) ([]SchemaMetadata, error) {
	return c.store.List(ctx)
}

func (c *CachedStore) Versions(ctx context.Context, name string) ([]string, error) {
	return c.store.Versions(ctx, name)
}

// invalidate drops every cached version of a schema, the @latest alias
// included.
func (c *CachedStore) invalidate(ctx context.Context, name string) {
	pattern := fmt.Sprintf("schema:%s@*", name)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("Schema cache delete failed")
		}
	}

	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("Schema cache scan failed")
	}
}
