package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_GetOrSet(t *testing.T) {
	cs := NewCacheService(0)
	defer cs.Close()

	calls := 0
	load := func(context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := cs.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = cs.GetOrSet(context.Background(), "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)
}

func TestCacheService_ErrorsAreNotCached(t *testing.T) {
	cs := NewCacheService(0)
	defer cs.Close()

	boom := errors.New("boom")
	_, err := cs.GetOrSet(context.Background(), "k", time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, found := cs.Get("k")
	assert.False(t, found)
}

func TestCacheService_InvalidateFirmPolicies(t *testing.T) {
	cs := NewCacheService(0)
	defer cs.Close()

	a, b := uuid.New(), uuid.New()
	cs.Set(PoliciesCacheKey(a), "a", time.Minute)
	cs.Set(PoliciesCacheKey(b), "b", time.Minute)

	cs.InvalidateFirmPolicies(a)

	_, found := cs.Get(PoliciesCacheKey(a))
	assert.False(t, found)
	_, found = cs.Get(PoliciesCacheKey(b))
	assert.True(t, found)
}

func TestCacheService_Expires(t *testing.T) {
	cs := NewCacheService(0)
	defer cs.Close()

	cs.Set("k", 1, -time.Second)
	_, found := cs.Get("k")
	assert.False(t, found)
}
