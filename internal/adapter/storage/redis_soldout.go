package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	soldOutKeyPrefix = "soldout:"
	soldOutTTL       = 24 * time.Hour
)

// RedisSoldOut marks items whose stock was authoritatively observed at zero
// so purchases can fail fast without a database round-trip. The marker is
// advisory: losing it only costs one extra query, and stock never increases,
// so a set marker can never wrongly reject.
type RedisSoldOut struct {
	client *redis.Client
}

func NewRedisSoldOut(client *redis.Client) *RedisSoldOut {
	return &RedisSoldOut{client: client}
}

func soldOutKey(itemID int64) string {
	return soldOutKeyPrefix + strconv.FormatInt(itemID, 10)
}

func (r *RedisSoldOut) MarkSoldOut(ctx context.Context, itemID int64) error {
	return r.client.SetNX(ctx, soldOutKey(itemID), 1, soldOutTTL).Err()
}

func (r *RedisSoldOut) IsSoldOut(ctx context.Context, itemID int64) (bool, error) {
	n, err := r.client.Exists(ctx, soldOutKey(itemID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
