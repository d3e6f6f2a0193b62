package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheContract runs a suite of tests to verify that a Cache implementation
// adheres to the defined interface contract.
func RunCacheContract(t *testing.T, cache Cache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	solved := &domain.Response{
		Solution: []domain.SolutionStep{
			{Step: 1, BucketX: 2, BucketY: 0, Action: domain.ActionFillX},
			{Step: 2, BucketX: 0, BucketY: 2, Action: domain.ActionTransferXY, Status: domain.StatusSolved},
		},
		IsSolvable: true,
		TotalSteps: 2,
	}

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, solved)
		require.NoError(t, err, "Set should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, solved, loaded)
	})

	t.Run("Get Returns Copy", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, solved))

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err)
		loaded.FromCache = true
		loaded.Solution[0].BucketX = 42

		again, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, again.FromCache)
		assert.Equal(t, 2, again.Solution[0].BucketX)
	})

	t.Run("Unsolvable Round Trip", func(t *testing.T) {
		unsolvable := &domain.Response{Message: domain.MsgNoSolution}
		k := key + "-unsolvable"
		require.NoError(t, cache.Set(ctx, k, unsolvable))
		defer func() { _ = cache.Delete(ctx, k) }()

		loaded, err := cache.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, unsolvable, loaded)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, solved))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "Delete of a missing key should not fail")
	})
}
