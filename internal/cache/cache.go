// Package cache holds the Redis client and the historian queue: every
// accepted game action is published as a GameActionRecord so external
// consumers can replay or audit games. The client is optional; when
// Redis is not configured every call is a no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil when Redis is not configured.
var Rdb *redis.Client

// InitRedis connects the shared client and verifies the connection.
func InitRedis(addr string) error {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}

	Rdb = client
	logrus.WithField("addr", addr).Info("connected to redis")
	return nil
}

// GameActionRecord is one historian entry: a single accepted action in
// a single game, ordered by ActionIndex.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}

// PublishGameAction appends the record to the game's action list and
// publishes it on the game's channel. No-op without a client.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	key := fmt.Sprintf("game:%s:actions", rec.GameID)
	if err := Rdb.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return Rdb.Publish(ctx, key, data).Err()
}

// FetchGameActions returns all historian entries for a game in order.
func FetchGameActions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	if Rdb == nil {
		return nil, nil
	}
	key := fmt.Sprintf("game:%s:actions", gameID)
	raw, err := Rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	records := make([]GameActionRecord, 0, len(raw))
	for _, item := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal action record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
