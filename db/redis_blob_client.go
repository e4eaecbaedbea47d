package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
)

const scanBatchSize = 500

// RedisBlobClient stores blobs as plain redis strings under "<container>/<key>".
type RedisBlobClient struct {
	client    *redis.Client
	container string
}

// NewRedisBlobClient wraps a connected go-redis client.
func NewRedisBlobClient(client *redis.Client, container string) *RedisBlobClient {
	return &RedisBlobClient{
		client:    client,
		container: strings.TrimSuffix(container, "/"),
	}
}

func (r *RedisBlobClient) fullKey(key string) string {
	if r.container == "" {
		return key
	}
	return r.container + "/" + key
}

// Get retrieves the blob stored at key.
func (r *RedisBlobClient) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return data, nil
}

// Put writes data at key, replacing any previous value.
func (r *RedisBlobClient) Put(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.fullKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to put blob %s: %w", key, err)
	}
	return nil
}

// List scans for keys under prefix.
func (r *RedisBlobClient) List(ctx context.Context, prefix string) ([]string, error) {
	pattern := escapeGlob(r.fullKey(prefix)) + "*"
	strip := r.fullKey("")

	var keys []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs with prefix %s: %w", prefix, err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, strip))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return dedupe(keys), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *RedisBlobClient) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Ping checks the redis connection.
func (r *RedisBlobClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// escapeGlob quotes the characters redis MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// SCAN may return a key more than once; keys must be sorted.
func dedupe(keys []string) []string {
	out := keys[:0]
	for i, k := range keys {
		if i > 0 && k == keys[i-1] {
			continue
		}
		out = append(out, k)
	}
	return out
}
