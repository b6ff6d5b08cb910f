package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop_AlwaysMisses(t *testing.T) {
	var c GovernorateCache = Nop{}

	require.NoError(t, c.SetActive(context.Background(), nil))
	_, err := c.GetActive(context.Background())
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestNewRedis_Defaults(t *testing.T) {
	c := NewRedis("localhost:6379", "")
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, DefaultTTL, c.TTL)
	assert.Equal(t, "localhost:6379", c.Client.Options().Addr)
}
