package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsAlwaysEmpty(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)

	var dst []string
	assert.False(t, c.GetJSON(ctx, "k", &dst))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	// Nothing listens on port 1; every operation must behave like a miss.
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)

	c.SetJSON(ctx, "j", map[string]int{"a": 1}, time.Minute)
	var dst map[string]int
	assert.False(t, c.GetJSON(ctx, "j", &dst))

	assert.NoError(t, c.Delete(ctx, "k", "j"))
	assert.Error(t, c.Ping(ctx))
}
