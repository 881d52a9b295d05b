//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := NewRedisClient(host+":"+port.Port(), "", 0)
	defer client.Close()
	require.NoError(t, client.Connect(ctx))

	c := NewRedisCache(client.Client, "test:")

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k1", map[string]string{"a": "b"}, time.Minute))

		var got map[string]string
		found, err := c.Get(ctx, "k1", &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "b", got["a"])
	})

	t.Run("miss", func(t *testing.T) {
		var got string
		found, err := c.Get(ctx, "missing", &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("exists and delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k2", true, time.Minute))
		exists, err := c.Exists(ctx, "k2")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, c.Delete(ctx, "k2"))
		exists, err = c.Exists(ctx, "k2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("ttl expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k3", 1, time.Second))
		assert.Eventually(t, func() bool {
			exists, _ := c.Exists(ctx, "k3")
			return !exists
		}, 5*time.Second, 100*time.Millisecond)
	})
}
