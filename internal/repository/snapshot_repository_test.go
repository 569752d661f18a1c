package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academy-admin-api/pkg/errors"
)

func TestSnapshotRepositoryWithoutClient(t *testing.T) {
	repo := NewSnapshotRepository(nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "k", []byte("v"), time.Minute))
	_, err := repo.Load(ctx, "k")
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.False(t, repo.Healthy(ctx))
	assert.NoError(t, repo.Delete(ctx, "k"))
	assert.NoError(t, repo.Close())
}

func TestSnapshotRepositoryRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	repo := NewSnapshotRepository(client, nil)
	defer repo.Close() //nolint:errcheck
	ctx := context.Background()

	key := "academy:test:snapshot"
	require.NoError(t, repo.Save(ctx, key, []byte(`{"students":[]}`), time.Minute))
	raw, err := repo.Load(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"students":[]}`, string(raw))

	require.NoError(t, repo.Delete(ctx, key))
	_, err = repo.Load(ctx, key)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}
