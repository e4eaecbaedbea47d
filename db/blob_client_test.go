package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grid-forecast/db"
)

func newRedisBlobClient(t *testing.T) (*db.RedisBlobClient, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return db.NewRedisBlobClient(client, "forecasting"), server
}

func blobClients(t *testing.T) []struct {
	name   string
	client db.BlobClient
} {
	redisClient, _ := newRedisBlobClient(t)
	return []struct {
		name   string
		client db.BlobClient
	}{
		{"MockBlobClient", db.NewMockBlobClient()},
		{"RedisBlobClient", redisClient},
	}
}

func TestBlobClient_PutAndGet(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, test.client.Put(ctx, "nesodata/demand.csv", []byte("a,b\n1,2\n")))
			got, err := test.client.Get(ctx, "nesodata/demand.csv")

			require.NoError(t, err)
			assert.Equal(t, "a,b\n1,2\n", string(got))
		})
	}
}

func TestBlobClient_PutOverwrites(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, test.client.Put(ctx, "k", []byte("first")))
			require.NoError(t, test.client.Put(ctx, "k", []byte("second")))
			got, err := test.client.Get(ctx, "k")

			require.NoError(t, err)
			assert.Equal(t, "second", string(got))
		})
	}
}

func TestBlobClient_GetMissing(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.client.Get(context.Background(), "missing")
			assert.True(t, errors.Is(err, db.ErrBlobNotFound), "got %v", err)
		})
	}
}

func TestBlobClient_ListByPrefix(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()
			for _, k := range []string{
				"next_day_forecast/forecast2025-01-03.csv",
				"next_day_forecast/forecast2025-01-01.csv",
				"next_day_forecast/forecast2025-01-02.csv",
				"models/ridge_model.json",
			} {
				require.NoError(t, test.client.Put(ctx, k, []byte("x")))
			}

			keys, err := test.client.List(ctx, "next_day_forecast/")

			require.NoError(t, err)
			assert.Equal(t, []string{
				"next_day_forecast/forecast2025-01-01.csv",
				"next_day_forecast/forecast2025-01-02.csv",
				"next_day_forecast/forecast2025-01-03.csv",
			}, keys)
		})
	}
}

func TestBlobClient_ListEmpty(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			keys, err := test.client.List(context.Background(), "nothing/")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestBlobClient_Delete(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, test.client.Put(ctx, "k", []byte("v")))

			require.NoError(t, test.client.Delete(ctx, "k"))
			require.NoError(t, test.client.Delete(ctx, "k"))

			_, err := test.client.Get(ctx, "k")
			assert.True(t, errors.Is(err, db.ErrBlobNotFound))
		})
	}
}

func TestBlobClient_Ping(t *testing.T) {
	for _, test := range blobClients(t) {
		t.Run(test.name, func(t *testing.T) {
			assert.NoError(t, test.client.Ping(context.Background()))
		})
	}
}

func TestRedisBlobClient_KeysAreContainerScoped(t *testing.T) {
	client, server := newRedisBlobClient(t)

	require.NoError(t, client.Put(context.Background(), "models/ridge_model.json", []byte("{}")))

	assert.True(t, server.Exists("forecasting/models/ridge_model.json"))
}
