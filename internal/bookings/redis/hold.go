package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis serializes booking bursts against a single event. The hold is a
// short-lived SetNX key, not an inventory reservation: the conditional
// seat UPDATE in the DB layer remains the source of truth for capacity.
type Redis struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Logger: log.Default(),
	}
}

// getHoldDuration returns the event hold TTL from the environment or the default.
func (r *Redis) getHoldDuration() time.Duration {
	defaultDuration := 10 * time.Second

	ttlStr := os.Getenv("BOOKING_HOLD_TTL_SECONDS")
	if ttlStr == "" {
		return defaultDuration
	}

	ttlSec, err := strconv.Atoi(ttlStr)
	if err != nil {
		r.Logger.Println("REDIS: Invalid BOOKING_HOLD_TTL_SECONDS value '" + ttlStr + "', using default 10 seconds")
		return defaultDuration
	}
	return time.Duration(ttlSec) * time.Second
}

// AcquireEventHold takes the per-event booking hold for one booking attempt.
func (r *Redis) AcquireEventHold(eventID, bookingID string) (bool, error) {
	key := "event_hold:" + eventID
	ok, err := r.Client.SetNX(context.Background(), key, bookingID, r.getHoldDuration()).Result()
	return ok, err
}

// ReleaseEventHold releases the hold if this booking attempt still owns it.
func (r *Redis) ReleaseEventHold(eventID, bookingID string) error {
	ctx := context.Background()
	key := fmt.Sprintf("event_hold:%s", eventID)
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == bookingID {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
