package redis

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis so no real
// Redis server is needed.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}

	return client, mr
}

func cleanupTestRedis(client *redis.Client, mr *miniredis.Miniredis) {
	if client != nil {
		client.Close()
	}
	if mr != nil {
		mr.Close()
	}
}

func TestAcquireEventHold(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := &Redis{Client: client, Logger: log.Default()}

	ok, err := r.AcquireEventHold("event-1", "booking-1")
	require.NoError(t, err)
	assert.True(t, ok, "first hold should be acquired")

	// A second booking attempt against the same event must be refused.
	ok, err = r.AcquireEventHold("event-1", "booking-2")
	require.NoError(t, err)
	assert.False(t, ok, "second hold on same event should be refused")

	// A different event is independent.
	ok, err = r.AcquireEventHold("event-2", "booking-3")
	require.NoError(t, err)
	assert.True(t, ok, "hold on a different event should succeed")
}

func TestReleaseEventHold(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := &Redis{Client: client, Logger: log.Default()}

	ok, err := r.AcquireEventHold("event-1", "booking-1")
	require.NoError(t, err)
	require.True(t, ok)

	// A different booking attempt must not be able to release the hold.
	err = r.ReleaseEventHold("event-1", "booking-2")
	require.NoError(t, err)

	exists := mr.Exists("event_hold:event-1")
	assert.True(t, exists, "hold should survive a release by a non-owner")

	// The owner releases it.
	err = r.ReleaseEventHold("event-1", "booking-1")
	require.NoError(t, err)

	exists = mr.Exists("event_hold:event-1")
	assert.False(t, exists, "hold should be gone after owner release")

	// Releasing an already-released hold is a no-op.
	err = r.ReleaseEventHold("event-1", "booking-1")
	require.NoError(t, err)
}

func TestEventHoldExpires(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	t.Setenv("BOOKING_HOLD_TTL_SECONDS", "2")

	r := &Redis{Client: client, Logger: log.Default()}

	ok, err := r.AcquireEventHold("event-1", "booking-1")
	require.NoError(t, err)
	require.True(t, ok)

	// miniredis does not tick on its own; advance its clock past the TTL.
	mr.FastForward(3 * time.Second)

	ok, err = r.AcquireEventHold("event-1", "booking-2")
	require.NoError(t, err)
	assert.True(t, ok, "hold should be acquirable after expiry")
}

func TestHoldDurationFallback(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer cleanupTestRedis(client, mr)

	r := &Redis{Client: client, Logger: log.Default()}

	t.Setenv("BOOKING_HOLD_TTL_SECONDS", "garbage")
	assert.Equal(t, 10*time.Second, r.getHoldDuration())

	t.Setenv("BOOKING_HOLD_TTL_SECONDS", "30")
	assert.Equal(t, 30*time.Second, r.getHoldDuration())
}
