package viewcounter

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCounter_DisabledWithoutClient(t *testing.T) {
	c := NewRedisCounter(nil)

	n, err := c.Increment(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisCounter_UnreachableServerReportsError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()

	_, err := NewRedisCounter(rdb).Increment(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	rdb, err := NewClient("")
	require.NoError(t, err)
	assert.Nil(t, rdb)

	_, err = NewClient("::not a url")
	assert.Error(t, err)

	rdb, err = NewClient("redis://localhost:6379/2")
	require.NoError(t, err)
	defer rdb.Close()
	assert.Equal(t, 2, rdb.Options().DB)
}
