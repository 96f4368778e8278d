package storage_test

import (
	"context"
	"grievance/backend/internal/models"
	"grievance/backend/internal/storage"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStorage(t *testing.T) (*storage.Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return storage.NewStorageService(nil, rdb), mr
}

func TestReclassifyQueue_AddGetRemove(t *testing.T) {
	s, _ := setupRedisStorage(t)
	ctx := context.Background()

	require.NoError(t, s.AddToReclassifyQueue(ctx, "g1"))
	require.NoError(t, s.AddToReclassifyQueue(ctx, "g2"))
	require.NoError(t, s.AddToReclassifyQueue(ctx, "g1")) // set semantics

	ids, err := s.GetReclassifyQueue(ctx, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"g1", "g2"}, ids)

	require.NoError(t, s.RemoveFromReclassifyQueue(ctx, "g1"))

	ids, err = s.GetReclassifyQueue(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"g2"}, ids)
}

func TestReclassifyQueue_LimitCapsBatch(t *testing.T) {
	s, _ := setupRedisStorage(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, s.AddToReclassifyQueue(ctx, id))
	}

	ids, err := s.GetReclassifyQueue(ctx, 2)

	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestReclassifyQueue_EmptyQueue(t *testing.T) {
	s, _ := setupRedisStorage(t)

	ids, err := s.GetReclassifyQueue(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReclassifyQueue_RedisUnavailable(t *testing.T) {
	s, mr := setupRedisStorage(t)
	mr.Close()

	err := s.AddToReclassifyQueue(context.Background(), "g1")

	assert.Error(t, err)
}

// TestReclassifyQueue_NilRedis covers the admin CLI, which runs without Redis.
func TestReclassifyQueue_NilRedis(t *testing.T) {
	s := storage.NewStorageService(nil, nil)
	ctx := context.Background()

	assert.NoError(t, s.AddToReclassifyQueue(ctx, "g1"))
	assert.NoError(t, s.RemoveFromReclassifyQueue(ctx, "g1"))
	ids, err := s.GetReclassifyQueue(ctx, 10)
	assert.NoError(t, err)
	assert.Nil(t, ids)
}

// Malformed IDs are rejected before any query is issued, so a nil DB is fine here.
func TestMalformedIDsAreNotFound(t *testing.T) {
	s := storage.NewStorageService(nil, nil)
	ctx := context.Background()

	_, err := s.GetGrievanceByID(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.UpdateGrievanceStatus(ctx, "nonexistent-id", models.StatusPending)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.UpdateGrievanceClassification(ctx, "nonexistent-id", models.Classification{})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.GetUserByID(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
