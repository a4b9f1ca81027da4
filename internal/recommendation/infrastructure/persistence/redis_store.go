package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// RedisStore is a DocumentStore backed by Redis. Each collection is one
// hash keyed by user id, under a common key prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis at url (redis:// form) and verifies
// the connection.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, prefix: "tascade:documents:"}, nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "tascade:documents:"}
}

func (s *RedisStore) key(collection string) string {
	return s.prefix + collection
}

func (s *RedisStore) Get(ctx context.Context, collection, userID string) ([]byte, error) {
	doc, err := s.client.HGet(ctx, s.key(collection), userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *RedisStore) Put(ctx context.Context, collection, userID string, doc []byte) error {
	if err := s.client.HSet(ctx, s.key(collection), userID, doc).Err(); err != nil {
		return fmt.Errorf("put document: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, userID string) error {
	if err := s.client.HDel(ctx, s.key(collection), userID).Err(); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, collection string) (map[string][]byte, error) {
	entries, err := s.client.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs := make(map[string][]byte, len(entries))
	for userID, doc := range entries {
		docs[userID] = []byte(doc)
	}
	return docs, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
