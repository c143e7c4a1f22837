package scoreboard

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/mazelab/solver-api/service/i"
)

const maxEntriesPerBoard = 100

// RedisScoreboard keeps per-algorithm run scores in Redis sorted sets with
// TTL support. Boards are trimmed to a bounded size on every write; the trim
// runs under a distributed lock so concurrent instances cannot interleave
// add and trim.
type RedisScoreboard struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisScoreboard initializes a RedisScoreboard with the provided Redis
// client and TTL.
func NewRedisScoreboard(client *redis.Client, ttlSeconds int) (i.SortedScoreboard, error) {
	board := &RedisScoreboard{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board, nil
}

// Record adds a member with the given score to a board, trims the board to
// its bound and sets expiration if necessary.
func (rs *RedisScoreboard) Record(ctx context.Context, boardKey string, score float64, member string) error {
	mutex := rs.locker.NewMutex(boardKey + ":record_lock")
	if err := mutex.Lock(); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.Unlock()
	}()

	_, err := rs.client.ZAdd(ctx, boardKey, redis.Z{Score: score, Member: member}).Result()
	if err != nil {
		return err
	}

	// Keep only the best (lowest-scored) entries.
	if err := rs.client.ZRemRangeByRank(ctx, boardKey, maxEntriesPerBoard, -1).Err(); err != nil {
		return err
	}

	// Set expiration only if it's not already set
	ttl, err := rs.client.TTL(ctx, boardKey).Result()
	if err == nil && ttl == -1 {
		_ = rs.client.Expire(ctx, boardKey, rs.ttl).Err()
	}

	return nil
}

// TopScores retrieves up to amount entries with the lowest scores without
// removing them.
func (rs *RedisScoreboard) TopScores(ctx context.Context, boardKey string, amount int64) ([]i.ScoreEntry, error) {
	rows, err := rs.client.ZRangeWithScores(ctx, boardKey, 0, amount-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]i.ScoreEntry, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, i.ScoreEntry{Member: member, Score: row.Score})
	}
	return entries, nil
}

// Count returns the number of entries on a board.
func (rs *RedisScoreboard) Count(ctx context.Context, boardKey string) int64 {
	return rs.client.ZCard(ctx, boardKey).Val()
}
