package dynamo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_CoversRangeOnce(t *testing.T) {
	for _, tc := range []struct{ workers, minChunk, n int }{
		{1, 1, 10},
		{4, 1, 10},
		{4, 8, 10},
		{8, 2, 101},
		{3, 1, 2},
	} {
		p := NewPool(tc.workers, tc.minChunk)
		hits := make([]int, tc.n)
		var mu sync.Mutex

		err := p.Run(context.Background(), tc.n, func(lo, hi int) error {
			mu.Lock()
			defer mu.Unlock()
			for i := lo; i < hi; i++ {
				hits[i]++
			}
			return nil
		})
		require.NoError(t, err)
		for i, h := range hits {
			assert.Equal(t, 1, h, "index %d with %+v", i, tc)
		}
	}
}

func TestPool_PropagatesError(t *testing.T) {
	p := NewPool(4, 1)
	boom := errors.New("boom")
	err := p.Run(context.Background(), 16, func(lo, hi int) error {
		if lo == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestPool_DefaultWorkers(t *testing.T) {
	assert.Greater(t, NewPool(0, 0).Workers(), 0)
}
